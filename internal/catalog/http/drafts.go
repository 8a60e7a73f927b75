package http

import (
	"log"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
)

// Form actions on the detail and create screens.
const (
	actionAddImage    = "add-image"
	actionRemoveImage = "remove-image"
	actionSave        = "save"
	actionCreate      = "create"
)

// draftForm is the local edit state of a screen. The image list travels as parallel
// hidden inputs so nothing is stored server side until save/create.
type draftForm struct {
	Name        string   `form:"name"`
	Number      string   `form:"number"`
	Description string   `form:"description"`
	ImageURLs   []string `form:"image_url"`
	ImageNames  []string `form:"image_name"`
	NewImage    string   `form:"new_image"`
	Action      string   `form:"action"`
	Image       int      `form:"image"`
}

func (f draftForm) product() domain.Product {
	images := make([]domain.Image, 0, len(f.ImageURLs))
	for i, url := range f.ImageURLs {
		name := ""
		if i < len(f.ImageNames) {
			name = f.ImageNames[i]
		}
		images = append(images, domain.Image{URL: url, Name: name})
	}
	return domain.Product{
		Name:        f.Name,
		Number:      f.Number,
		Description: f.Description,
		Images:      images,
	}
}

// apply runs a draft-only action. It reports false for actions that must reach the store.
func (f draftForm) apply(p *domain.Product) bool {
	switch f.Action {
	case actionAddImage:
		p.AppendImage(f.NewImage)
		return true
	case actionRemoveImage:
		if err := p.RemoveImageAt(f.Image); err != nil {
			log.Printf("[catalog] draft remove-image %d ignored: %v", f.Image, err)
		}
		return true
	}
	return false
}
