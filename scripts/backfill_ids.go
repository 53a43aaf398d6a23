// Recompute the derived chapter/lesson UUID columns on course_structure.
//
// The columns are a projection of the numeric (course, chapter, lesson)
// key and the main app keeps them fresh on every structure write. This
// script exists for bulk imports that bypassed the API, or to repopulate
// after restoring a dump that predates the UUID columns.
//
// Usage: go run scripts/backfill_ids.go

package main

import (
	"log"
	"os"

	"github.com/AnektrOn/catalystbeacon-sub000/internal/config"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/progression"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/database"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var rows []model.CourseStructure
	if err := db.Order("course_id, chapter_number, lesson_number").Find(&rows).Error; err != nil {
		log.Fatalf("loading course structure failed: %v", err)
	}

	updated := 0
	for _, row := range rows {
		chapterID := progression.ChapterID(row.CourseID, row.ChapterNumber)
		lessonID := progression.LessonID(row.CourseID, row.ChapterNumber, row.LessonNumber)
		if row.ChapterUUID == chapterID && row.LessonUUID == lessonID {
			continue
		}
		err := db.Model(&model.CourseStructure{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"chapter_uuid": chapterID,
				"lesson_uuid":  lessonID,
			}).Error
		if err != nil {
			log.Fatalf("updating row %d failed: %v", row.ID, err)
		}
		updated++
	}

	log.Printf("backfill complete: %d rows checked, %d updated", len(rows), updated)
}
