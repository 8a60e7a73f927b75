// Package csvio converts the catalog to and from CSV. Images are stored in one
// column as a JSON array of {"url","name"} objects.
package csvio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/jszwec/csvutil"
)

// Hand-written files may still use the older "url|name;url|name" images column.
const (
	legacyImageSep = ";"
	legacyFieldSep = "|"
)

// Row is one CSV line.
type Row struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Number      string `csv:"number"`
	Description string `csv:"description"`
	Images      string `csv:"images"`
}

// Export writes every product as a row, header first.
func Export(w io.Writer, products []domain.Product) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(products) == 0 {
		if err := enc.EncodeHeader(Row{}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, p := range products {
		row, err := ToRow(p)
		if err != nil {
			return err
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Import reads products from CSV. Rows keep their id column when present; the store
// assigns ids to the rest.
func Import(r io.Reader) ([]domain.Product, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var rows []Row
	if err := dec.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for i, row := range rows {
		p, err := row.Product()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func ToRow(p domain.Product) (Row, error) {
	images, err := EncodeImages(p.Images)
	if err != nil {
		return Row{}, err
	}
	return Row{
		ID:          p.ID,
		Name:        p.Name,
		Number:      p.Number,
		Description: p.Description,
		Images:      images,
	}, nil
}

func (r Row) Product() (domain.Product, error) {
	images, err := DecodeImages(r.Images)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          strings.TrimSpace(r.ID),
		Name:        r.Name,
		Number:      r.Number,
		Description: r.Description,
		Images:      images,
	}, nil
}

// EncodeImages renders the images column. An empty list is an empty cell.
func EncodeImages(images []domain.Image) (string, error) {
	if len(images) == 0 {
		return "", nil
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode images: %w", err)
	}
	return string(data), nil
}

// DecodeImages parses the images column: a JSON array, or the legacy separator form
// where blank entries are skipped and an entry without "|" is a bare url.
func DecodeImages(s string) ([]domain.Image, error) {
	images := []domain.Image{}
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &images); err != nil {
			return nil, fmt.Errorf("invalid images column: %w", err)
		}
		if images == nil {
			images = []domain.Image{}
		}
		return images, nil
	}

	for _, part := range strings.Split(s, legacyImageSep) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		url, name, _ := strings.Cut(part, legacyFieldSep)
		images = append(images, domain.Image{URL: strings.TrimSpace(url), Name: name})
	}
	return images, nil
}
