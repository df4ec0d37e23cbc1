// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"reflect"
)

//go:embed template/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template together with the shared partials.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "template/*.html")
}

// Static returns the asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// FuncMap exposes lookup helpers that tolerate missing form data.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"field": lookup,
	}
}

// lookup reads key from any string-keyed map; missing maps or keys yield "".
func lookup(m interface{}, key string) string {
	v := reflect.ValueOf(m)
	if !v.IsValid() || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return ""
	}
	item := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	if !item.IsValid() {
		return ""
	}
	if item.Kind() == reflect.Interface && item.IsNil() {
		return ""
	}
	return fmt.Sprint(item.Interface())
}
