// Command seed fills a development database with sample looks.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"

	"github.com/outfitcult/internal/config"
	"github.com/outfitcult/internal/db"
	"github.com/outfitcult/internal/logger"
	"github.com/outfitcult/internal/service"
	"github.com/outfitcult/internal/storage"
	"gorm.io/gorm"
)

type samplePost struct {
	title       string
	description string
	content     string
	shade       color.RGBA
	extra       int
}

var samples = []samplePost{
	{
		title:       "Autumn Layers",
		description: "A camel coat over a chunky knit, finished with leather boots.",
		content:     "## The pieces\n\n- Camel wool coat\n- Cream cable knit\n- Dark straight jeans\n- Chelsea boots\n\nKeep the palette warm and let the coat do the talking.",
		shade:       color.RGBA{R: 193, G: 154, B: 107, A: 255},
		extra:       2,
	},
	{
		title:       "Monochrome Street Style",
		description: "All black everything, broken up by texture.",
		content:     "Mixing **matte** and **shine** keeps an all-black outfit from looking flat.",
		shade:       color.RGBA{R: 30, G: 30, B: 30, A: 255},
		extra:       1,
	},
	{
		title:       "Summer Linen",
		description: "Loose linen shirt and shorts for hot city days.",
		content:     "Linen wrinkles. Embrace it.",
		shade:       color.RGBA{R: 236, G: 228, B: 210, A: 255},
	},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "text")

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

	store, err := storage.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	created, err := seed(context.Background(), gdb, store, log)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("created %d posts for author demo (password: demo12345)\n", created)
}

// seed creates the demo author and publishes every sample that does not
// exist yet. It returns how many posts were created.
func seed(ctx context.Context, gdb *gorm.DB, store storage.Storage, log *slog.Logger) (int, error) {
	author, err := db.EnsureUser(gdb, "demo", "demo12345", "Demo Stylist")
	if err != nil {
		return 0, fmt.Errorf("create demo author: %w", err)
	}

	authoring := service.NewAuthoringService(gdb, store, log)
	created := 0
	for _, sample := range samples {
		var count int64
		if err := gdb.Model(&db.Post{}).Where("slug = ?", service.Slugify(sample.title)).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		cover, err := swatch(sample.title+".png", sample.shade)
		if err != nil {
			return created, err
		}
		input := service.DraftInput{
			Title:       sample.title,
			Description: sample.description,
			Content:     sample.content,
			AuthorID:    &author.ID,
			Featured:    &cover,
		}
		for i := 0; i < sample.extra; i++ {
			detail, err := swatch(fmt.Sprintf("detail-%d.png", i+1), sample.shade)
			if err != nil {
				return created, err
			}
			input.Images = append(input.Images, detail)
		}

		if _, err := authoring.Create(ctx, input); err != nil {
			return created, fmt.Errorf("create %q: %w", sample.title, err)
		}
		created++
	}
	return created, nil
}

// swatch renders a flat colour PNG to stand in for an outfit photo.
func swatch(name string, shade color.RGBA) (storage.File, error) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, shade)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return storage.File{}, err
	}
	return storage.File{Name: name, Data: buf.Bytes(), ContentType: "image/png"}, nil
}
