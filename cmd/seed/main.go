// Command seed loads the bundled deck catalogue and optionally imports extra
// decks from a JSON array file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/database"
	"github.com/coderhuBypassion/BriefBank/internal/modules/catalog/deck"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	importPath := flag.String("import", "", "Optional JSON file with an array of decks to append")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	db, err := database.Connect(cfg, true)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	if _, err := database.SeedDecks(ctx, db, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	if *importPath == "" {
		return
	}

	content, err := os.ReadFile(*importPath)
	if err != nil {
		log.Fatal("read import file", zap.Error(err))
	}
	var items []deck.ImportDTO
	if err := json.Unmarshal(content, &items); err != nil {
		log.Fatal("decode import file", zap.String("path", *importPath), zap.Error(err))
	}

	// Imported decks reference their own file URLs, so no presigner is needed.
	svc := deck.NewService(db, deck.NewResolver(db), nil)
	for i := range items {
		d, err := svc.Import(ctx, &items[i])
		if err != nil {
			log.Error("import deck", zap.String("title", items[i].Title), zap.Error(err))
			continue
		}
		log.Info("imported deck", zap.Int("id", d.LegacyID), zap.String("title", d.Title))
	}
}
