package seed

import (
	"context"
	"encoding/json"

	"hauswart/config"
	. "hauswart/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type noteCatalog struct {
	category string
	items    []string
}

// The quick-phrase catalog the form offers under the notes field. Ordered
// the way the catalog appears in the form.
var noteCatalogs = []noteCatalog{
	{
		category: "Reparaturen",
		items: []string{
			"Defekte Beleuchtung",
			"Verstopfter Abfluss",
			"Defekte Steckdose",
			"Heizung funktioniert nicht",
			"Toilette verstopft",
			"Toilettendeckel defekt - Austausch nötig",
			"Wasserhahn tropft",
		},
	},
	{
		category: "Malerarbeiten",
		items: []string{
			"Wand muss gestrichen werden",
			"Decke muss gestrichen werden",
			"Feuchtigkeitsflecken",
			"Tapete löst sich",
		},
	},
	{
		category: "Sonstiges",
		items: []string{
			"Fenster undicht",
			"Tür klemmt",
			"Rolladen defekt",
			"Schrank beschädigt",
		},
	},
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding note template catalog")

	ctx := context.Background()

	for i, catalog := range noteCatalogs {
		items, err := json.Marshal(catalog.items)
		if err != nil {
			return log.Err("failed to marshal note items", err, "category", catalog.category)
		}

		var existing NoteTemplate
		if err := db.WithContext(ctx).
			Where("category = ?", catalog.category).
			First(&existing).Error; err == nil {
			log.Info("Note template already exists", "category", catalog.category)
			continue
		}

		template := NoteTemplate{
			Category:  catalog.category,
			Items:     datatypes.JSON(items),
			SortOrder: i,
		}

		if err := db.WithContext(ctx).Create(&template).Error; err != nil {
			return log.Err("failed to seed note template", err, "category", catalog.category)
		}

		log.Info("Seeded note template", "category", catalog.category, "items", len(catalog.items))
	}

	return nil
}
