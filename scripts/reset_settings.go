package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dancedesk/dancedesk/internal/config"
	"github.com/dancedesk/dancedesk/internal/models"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	db := models.GetDB()

	var settings []models.Setting
	if err := db.Order("category, key").Find(&settings).Error; err != nil {
		fmt.Printf("Failed to read settings: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d settings:\n\n", len(settings))

	category := ""
	for _, s := range settings {
		if s.Category != category {
			category = s.Category
			fmt.Printf("=== %s ===\n", category)
		}
		fmt.Printf("  %-35s %-8s %q (updated by %s)\n", s.Key, s.DataType, s.Value, s.UpdatedBy)
	}
	fmt.Println(strings.Repeat("-", 80))

	if len(os.Args) > 1 && os.Args[1] == "--reset" {
		fmt.Println("\n>>> Resetting all settings to their default values...")

		for _, d := range models.DefaultSettings() {
			res := db.Model(&models.Setting{}).
				Where("category = ? AND key = ?", d.Category, d.Key).
				Updates(map[string]interface{}{"value": d.Value, "updated_by": "system"})
			if res.Error != nil {
				fmt.Printf("Failed to reset %s/%s: %v\n", d.Category, d.Key, res.Error)
			} else if res.RowsAffected == 0 {
				if err := db.Create(&d).Error; err != nil {
					fmt.Printf("Failed to recreate %s/%s: %v\n", d.Category, d.Key, err)
				} else {
					fmt.Printf("Recreated missing setting %s/%s\n", d.Category, d.Key)
				}
			} else {
				fmt.Printf("Reset %s/%s to %q\n", d.Category, d.Key, d.Value)
			}
		}
	} else {
		fmt.Println("\nRun with --reset to restore every setting to its default value.")
	}
}
