// Command initauthor creates an author account with a profile.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/outfitcult/internal/config"
	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/logger"
)

func main() {
	username := flag.String("username", "", "login name")
	password := flag.String("password", "", "password")
	displayName := flag.String("name", "", "display name (defaults to username)")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "text")

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: initauthor -username NAME -password PASS [-name DISPLAY]")
		os.Exit(2)
	}

	// 初始化数据库
	dsn := cfg.DatabasePath
	if cfg.DatabaseDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	gdb, err := db.Open(cfg.DatabaseDriver, dsn, false)
	if err != nil {
		log.Error("数据库初始化失败", "error", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	user, err := db.EnsureUser(gdb, *username, *password, *displayName)
	if err != nil {
		log.Error("创建用户失败", "error", err)
		os.Exit(1)
	}
	log.Info("author ready", "username", user.Username, "id", user.ID)
}
