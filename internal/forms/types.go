package forms

import (
	"strings"

	"github.com/Skotchmaster/storefront/internal/api"
	"github.com/Skotchmaster/storefront/internal/models"
)

type Login struct {
	Email    string `json:"email" form:"email" validate:"notblank,mail"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

func (f Login) Credentials() api.Credentials {
	return api.Credentials{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type Register struct {
	Name            string `json:"name" form:"name" validate:"notblank"`
	Email           string `json:"email" form:"email" validate:"notblank,mail"`
	Password        string `json:"password" form:"password" validate:"required,strongpw"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
	Phone           string `json:"phone,omitempty" form:"phone"`
	Address         string `json:"address,omitempty" form:"address"`
	Age             int    `json:"age,omitempty" form:"age" validate:"gte=0"`
}

func (f Register) Input() api.RegisterInput {
	return api.RegisterInput{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Phone:    strings.TrimSpace(f.Phone),
		Address:  strings.TrimSpace(f.Address),
		Age:      f.Age,
	}
}

// Profile is used both by visitors on their own profile and by admins
// editing a user. An empty password leaves it unchanged.
type Profile struct {
	Name            string `json:"name" form:"name" validate:"notblank"`
	Email           string `json:"email" form:"email" validate:"notblank,mail"`
	Phone           string `json:"phone" form:"phone"`
	Address         string `json:"address" form:"address"`
	Age             int    `json:"age" form:"age" validate:"gte=0"`
	Avatar          string `json:"avatar" form:"avatar"`
	Role            string `json:"role,omitempty" form:"role" validate:"omitempty,oneof=admin staff user"`
	Password        string `json:"password,omitempty" form:"password" validate:"omitempty,strongpw"`
	ConfirmPassword string `json:"confirmPassword,omitempty" form:"confirmPassword" validate:"eqfield=Password"`
}

func (f Profile) Update() api.UserUpdate {
	return api.UserUpdate{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Phone:    strings.TrimSpace(f.Phone),
		Address:  strings.TrimSpace(f.Address),
		Age:      f.Age,
		Avatar:   f.Avatar,
		Role:     f.Role,
		Password: f.Password,
	}
}

type Category struct {
	Name string `json:"name" form:"name" validate:"notblank"`
	Icon string `json:"icon,omitempty" form:"icon"`
}

func (f Category) Model(id int64) models.Category {
	return models.Category{ID: id, Name: strings.TrimSpace(f.Name), Icon: f.Icon}
}

type Product struct {
	Name        string  `json:"name" form:"name" validate:"notblank"`
	CategoryID  int64   `json:"categoryId" form:"categoryId" validate:"gte=0"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Stock       int     `json:"stock" form:"stock" validate:"gte=0"`
	Description string  `json:"description" form:"description"`
	Image       string  `json:"image" form:"image"`
	Featured    bool    `json:"featured" form:"featured"`
}

// Model builds the full record; the API replaces products wholesale on update.
func (f Product) Model(id int64) models.Product {
	return models.Product{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		CategoryID:  f.CategoryID,
		Price:       f.Price,
		Description: f.Description,
		Image:       f.Image,
		Stock:       f.Stock,
		Featured:    f.Featured,
	}
}
