// Package convert turns recipe datasets in CSV or XLSX form into the
// JSON catalog format the server loads.
//
// Input files must carry a header row with Title, Cleaned_Ingredients
// and Instructions columns (extra columns are ignored). Ingredient
// cells hold a comma-separated list, possibly wrapped in list
// notation like ['egg', 'butter']; wrapping brackets and quotes are
// stripped during conversion.
package convert

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type outRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Convert reads the dataset at input and writes the JSON catalog to
// output. The input format is chosen by file extension (.csv or
// .xlsx).
func Convert(input, output string, logger *slog.Logger) error {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".csv":
		rows, err = readCSV(input)
	case ".xlsx":
		rows, err = readXLSX(input)
	default:
		return fmt.Errorf("unsupported input format %q (want .csv or .xlsx)", ext)
	}
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("%s: no data rows", input)
	}

	titleCol, ingrCol, instrCol, err := locateColumns(rows[0])
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	recipes := make([]outRecipe, 0, len(rows)-1)
	for i, row := range rows[1:] {
		title := cellAt(row, titleCol)
		if title == "" {
			logger.Warn("skipping row without title", "row", i+2)
			continue
		}
		recipes = append(recipes, outRecipe{
			Title:        title,
			Ingredients:  splitIngredients(cellAt(row, ingrCol)),
			Instructions: cellAt(row, instrCol),
		})
	}

	if err := writeJSON(output, recipes); err != nil {
		return err
	}
	logger.Info("catalog written", "path", output, "recipes", len(recipes))
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s: %w", path, err)
	}
	return rows, nil
}

// locateColumns finds the required columns by header name,
// case-insensitively.
func locateColumns(header []string) (title, ingr, instr int, err error) {
	title, ingr, instr = -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "title":
			title = i
		case "cleaned_ingredients", "ingredients":
			ingr = i
		case "instructions":
			instr = i
		}
	}
	if title < 0 || ingr < 0 || instr < 0 {
		return 0, 0, 0, fmt.Errorf("header must contain Title, Cleaned_Ingredients and Instructions columns")
	}
	return title, ingr, instr, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// splitIngredients lowercases the cell, splits on commas and strips
// list notation left over from the dataset export.
func splitIngredients(cell string) []string {
	parts := strings.Split(strings.ToLower(cell), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, " \t[]'\"")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeJSON writes the catalog atomically so a watcher never observes
// a half-written file.
func writeJSON(path string, recipes []outRecipe) error {
	data, err := json.MarshalIndent(recipes, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pantry-catalog-*")
	if err != nil {
		return err
	}
	var success bool
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	success = true
	return nil
}
