package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/school-hub/school-admin-hub/internal/interchange"
	"github.com/school-hub/school-admin-hub/internal/store"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

func (a *App) interchangeMenu(log *logger.Logger) {
	for {
		a.showf("\n─── Import / Export ───")
		a.showf("1. Export students CSV   5. Import students CSV")
		a.showf("2. Export teachers CSV   6. Import teachers CSV")
		a.showf("3. Export attendance CSV 7. Import attendance CSV")
		a.showf("4. Export exams CSV      8. Import exams CSV")
		a.showf("9. Export fee log CSV   10. Import fee log CSV")
		a.showf("11. Export students XLSX 12. Import students XLSX")
		a.showf("13. Export attendance XLSX")
		a.showf("0. Back")

		choice, err := a.prompt("Choice: ")
		if err != nil {
			return
		}
		if choice == "0" {
			return
		}

		path, err := a.prompt("File path: ")
		if err != nil || path == "" {
			continue
		}

		switch choice {
		case "1":
			a.exportCSV(path, interchange.ExportStudentsCSV, log)
		case "2":
			a.exportCSV(path, interchange.ExportTeachersCSV, log)
		case "3":
			a.exportCSV(path, interchange.ExportAttendanceCSV, log)
		case "4":
			a.exportCSV(path, interchange.ExportExamsCSV, log)
		case "9":
			a.exportCSV(path, interchange.ExportFeeTransactionsCSV, log)
		case "5":
			a.importCSV(path, interchange.ImportStudentsCSV, log)
		case "6":
			a.importCSV(path, interchange.ImportTeachersCSV, log)
		case "7":
			a.importCSV(path, interchange.ImportAttendanceCSV, log)
		case "8":
			a.importCSV(path, interchange.ImportExamsCSV, log)
		case "10":
			a.importCSV(path, interchange.ImportFeeTransactionsCSV, log)
		case "11":
			if err := interchange.ExportStudentsXLSX(path, a.store); err != nil {
				a.showErr(err)
			} else {
				log.Info("export written", logger.Operation("export"), logger.Path(path))
				a.showf("Exported to %s", path)
			}
		case "12":
			summary, err := interchange.ImportStudentsXLSX(path, a.store)
			if err != nil {
				a.showErr(err)
			} else {
				a.showImportSummary(summary, path, log)
			}
		case "13":
			if err := interchange.ExportAttendanceXLSX(path, a.store); err != nil {
				a.showErr(err)
			} else {
				log.Info("export written", logger.Operation("export"), logger.Path(path))
				a.showf("Exported to %s", path)
			}
		}
	}
}

func (a *App) exportCSV(path string, export func(io.Writer, *store.Store) error, log *logger.Logger) {
	f, err := os.Create(path)
	if err != nil {
		a.showErr(err)
		return
	}
	defer f.Close()
	if err := export(f, a.store); err != nil {
		a.showErr(err)
		return
	}
	log.Info("export written", logger.Operation("export"), logger.Path(path))
	a.showf("Exported to %s", path)
}

func (a *App) importCSV(path string, doImport func(io.Reader, *store.Store) (interchange.ImportSummary, error), log *logger.Logger) {
	f, err := os.Open(path)
	if err != nil {
		a.showErr(err)
		return
	}
	defer f.Close()
	summary, err := doImport(f, a.store)
	if err != nil {
		a.showErr(err)
		return
	}
	a.showImportSummary(summary, path, log)
}

func (a *App) showImportSummary(summary interchange.ImportSummary, path string, log *logger.Logger) {
	log.Info("import finished", logger.Operation("import"), logger.Path(path),
		logger.Int("imported", summary.Imported), logger.Int("skipped", summary.Skipped))
	fmt.Fprintf(a.out, "Imported %d, skipped %d.\n", summary.Imported, summary.Skipped)
	for _, note := range summary.Notes {
		a.showf("  - %s", note)
	}
}
