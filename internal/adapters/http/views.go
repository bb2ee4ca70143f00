package web

import (
	"glow/internal/domain/product"
	"glow/internal/domain/routine"
	"glow/internal/domain/routinelog"
	"glow/internal/domain/shelfitem"
	"glow/internal/domain/user"
)

// View types decouple the JSON surface from the domain structs. Field
// renames and additions happen here without touching the domain layer.

type productView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand,omitempty"`
	Category        string  `json:"category,omitempty"`
	CompanyID       string  `json:"company_id,omitempty"`
	CompanyName     string  `json:"company_name,omitempty"`
	IngredientsText string  `json:"ingredients_text,omitempty"`
	IngredientsHTML string  `json:"ingredients_html,omitempty"`
	Barcode         string  `json:"barcode,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	IsPrivate       bool    `json:"is_private"`
	Rating          float64 `json:"rating,omitempty"`
}

func toProductView(p product.Product) productView {
	return productView{
		ID:              p.ID,
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		CompanyID:       p.CompanyID,
		CompanyName:     p.CompanyName,
		IngredientsText: p.IngredientsText,
		Barcode:         p.Barcode,
		ImageURL:        p.ImageURL,
		IsPrivate:       p.IsPrivate,
		Rating:          p.Rating,
	}
}

func toProductViews(products []product.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

type shelfItemView struct {
	ID             string       `json:"id"`
	ProductID      string       `json:"product_id"`
	Status         string       `json:"status"`
	DateOpened     string       `json:"date_opened,omitempty"`
	ExpirationDate string       `json:"expiration_date,omitempty"`
	Rating         float64      `json:"rating,omitempty"`
	Review         string       `json:"review,omitempty"`
	Product        *productView `json:"product,omitempty"`
}

func toShelfItemView(item shelfitem.ShelfItem) shelfItemView {
	v := shelfItemView{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Status:         item.Status,
		DateOpened:     item.DateOpened,
		ExpirationDate: item.ExpirationDate,
		Rating:         item.Rating,
		Review:         item.Review,
	}
	if item.Product != nil {
		pv := toProductView(*item.Product)
		v.Product = &pv
	}
	return v
}

type stepView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Order           int    `json:"order"`
	ProductID       string `json:"product_id,omitempty"`
	ProductImageURL string `json:"product_image_url,omitempty"`
}

func toStepView(s routine.Step) stepView {
	return stepView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Order:       s.Order,
		ProductID:   s.ProductID,
	}
}

type routineView struct {
	ID    string     `json:"id"`
	Type  string     `json:"type"`
	Steps []stepView `json:"steps"`
}

func toRoutineView(r routine.Routine) routineView {
	steps := make([]stepView, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, toStepView(s))
	}
	return routineView{ID: r.ID, Type: r.Type, Steps: steps}
}

type logView struct {
	RoutineID      string   `json:"routine_id"`
	Date           string   `json:"date"`
	CompletedSteps []string `json:"completed_steps"`
}

func toLogView(l routinelog.Log) logView {
	steps := l.CompletedSteps
	if steps == nil {
		steps = []string{}
	}
	return logView{RoutineID: l.RoutineID, Date: l.Date, CompletedSteps: steps}
}

type profileView struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	SkinType     string   `json:"skin_type,omitempty"`
	SkinConcerns []string `json:"skin_concerns"`
}

func toProfileView(u user.User) profileView {
	concerns := u.SkinConcerns
	if concerns == nil {
		concerns = []string{}
	}
	return profileView{
		ID:           u.ID,
		Email:        u.Email,
		SkinType:     u.SkinType,
		SkinConcerns: concerns,
	}
}
