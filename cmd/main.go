package main

import (
	"fmt"
	"os"

	"github.com/langflix/langflix-backend/internal/app"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/types"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)

	a := app.New(log, cfg, seedCatalog())
	if err := a.Run(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// seedCatalog is placeholder content until a real ingestion pipeline feeds the
// catalog.
func seedCatalog() []types.ContentItem {
	return []types.ContentItem{
		{
			ID:     "clip-cafe-001",
			Type:   "video",
			Title:  "Ordering at a cafe",
			Text:   "Hola, buenos dias. Quiero un cafe con leche por favor. Gracias, hasta luego.",
			Topics: []string{"food", "daily-life"},
		},
		{
			ID:     "clip-intro-002",
			Type:   "video",
			Title:  "Introducing yourself",
			Text:   "Hola, me llamo Ana. Soy de Madrid y trabajo como profesora. Mucho gusto.",
			Topics: []string{"daily-life"},
		},
		{
			ID:     "clip-news-003",
			Type:   "video",
			Title:  "Evening news clip",
			Text:   "El gobierno anuncio nuevas medidas economicas para impulsar la inversion extranjera durante el proximo trimestre.",
			Topics: []string{"news"},
		},
	}
}
