package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/khadamati/khadamati-backend/config"
	"github.com/khadamati/khadamati-backend/internal/app/model"
	"github.com/khadamati/khadamati-backend/internal/db"
	"github.com/khadamati/khadamati-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Expected columns, in order:
// email, name, phone, city, specialization, bio,
// category, service title, service description, price, service city
const columnCount = 11

type providerRow struct {
	Email          string
	Name           string
	Phone          string
	City           string
	Specialization string
	Bio            string

	Category           string
	ServiceTitle       string
	ServiceDescription string
	Price              float64
	ServiceCity        string
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readProviderRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total provider listings to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported, skipped := importRows(db.GetDB(), rows)

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Imported listings: %d\n", imported)
	fmt.Printf("  Skipped listings: %d\n", skipped)
}

func readProviderRows(filePath string) ([]providerRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var rows []providerRow
	skippedCount := 0

	for i, raw := range rawRows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", raw)
			continue
		}

		if len(raw) < columnCount {
			skippedCount++
			continue
		}

		row := providerRow{
			Email:              strings.TrimSpace(raw[0]),
			Name:               strings.TrimSpace(raw[1]),
			Phone:              strings.TrimSpace(raw[2]),
			City:               strings.TrimSpace(raw[3]),
			Specialization:     strings.TrimSpace(raw[4]),
			Bio:                strings.TrimSpace(raw[5]),
			Category:           strings.TrimSpace(raw[6]),
			ServiceTitle:       strings.TrimSpace(raw[7]),
			ServiceDescription: strings.TrimSpace(raw[8]),
			ServiceCity:        strings.TrimSpace(raw[10]),
		}

		if row.Email == "" || row.Name == "" || row.Category == "" || row.ServiceTitle == "" {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(raw[9]), 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}
		row.Price = price

		if row.ServiceCity == "" {
			row.ServiceCity = row.City
		}

		rows = append(rows, row)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rawRows)-1)
	fmt.Printf("  Valid listings: %d\n", len(rows))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return rows, nil
}

// importRows creates the provider account (approved, with a default
// password), the category if missing, and the service listing. Rows for
// an email seen before reuse the existing account.
func importRows(gdb *gorm.DB, rows []providerRow) (imported, skipped int) {
	defaultPassword, err := util.HashPassword("changeme123")
	if err != nil {
		log.Fatal("Failed to hash default password:", err)
	}

	for _, row := range rows {
		err := gdb.Transaction(func(tx *gorm.DB) error {
			var user model.User
			err := tx.Where("email = ?", row.Email).First(&user).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				user = model.User{
					Email:    row.Email,
					Password: defaultPassword,
					Name:     row.Name,
					Phone:    row.Phone,
					City:     row.City,
					Role:     model.RoleProvider,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
			}

			var provider model.Provider
			err = tx.Where("user_id = ?", user.ID).First(&provider).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				provider = model.Provider{
					UserID:         user.ID,
					Specialization: row.Specialization,
					Bio:            row.Bio,
					Status:         model.ApprovalStatusApproved,
				}
				if err := tx.Create(&provider).Error; err != nil {
					return err
				}
			}

			var category model.Category
			err = tx.Where("name = ?", row.Category).First(&category).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				category = model.Category{Name: row.Category}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}

			service := model.Service{
				ProviderID:  provider.ID,
				CategoryID:  category.ID,
				Title:       row.ServiceTitle,
				Description: row.ServiceDescription,
				Price:       row.Price,
				City:        row.ServiceCity,
				IsActive:    true,
			}
			return tx.Create(&service).Error
		})
		if err != nil {
			fmt.Printf("Skipping %s (%s): %v\n", row.ServiceTitle, row.Email, err)
			skipped++
			continue
		}
		imported++

		if imported%100 == 0 {
			fmt.Printf("Imported %d listings...\n", imported)
		}
	}

	return imported, skipped
}
