package main

import (
	log "github.com/sirupsen/logrus"

	"canadian-helper/bot"
	"canadian-helper/config"
	"canadian-helper/handlers"
	"canadian-helper/stats"
	"canadian-helper/storage"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}

	// Records from guilds the bot no longer serves would otherwise sit in
	// the files forever.
	if !cfg.DisableStartupFix {
		if purged, err := store.PurgeOtherGuilds(cfg.AllowedGuildID); err != nil {
			log.Errorf("Error purging foreign guild records: %v", err)
		} else if purged > 0 {
			log.Infof("Purged %d records from other guilds", purged)
		}
	}

	archive, err := stats.Open(cfg.StatsDBPath)
	if err != nil {
		log.Fatalf("Error opening stats archive: %v", err)
	}
	defer archive.Close()

	b, err := bot.New(cfg, store, archive)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	if err := b.Run(); err != nil {
		log.Fatalf("Error running bot: %v", err)
	}
	b.Close()
}
