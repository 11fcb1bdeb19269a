package seo

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"autohub.ng/autohub-web/internal/api"
)

func TestDescription(t *testing.T) {
	t.Parallel()

	got := Description("<p>Clean <b>Toyota</b> Camry,</p><p>first body paint.</p>", 0)
	require.Equal(t, "Clean Toyota Camry, first body paint.", got)

	require.Equal(t, "Clean Toyota…", Description("<p>Clean Toyota Camry</p>", 16))
}

func TestCarSchema(t *testing.T) {
	t.Parallel()

	car := api.Car{
		ID: 7, Brand: api.Brand{Name: "Toyota"}, Model: "Camry", Year: 2019,
		Price: decimal.NewFromInt(12500000), Mileage: 54000, FeaturedImage: "a.jpg",
	}
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(Car(car, "https://autohub.ng/cars/7", ""))), &decoded))
	require.Equal(t, "Car", decoded["@type"])
	require.Equal(t, "2019 Toyota Camry", decoded["name"])
	offers := decoded["offers"].(map[string]any)
	require.Equal(t, "12500000", offers["price"])
	require.Equal(t, "NGN", offers["priceCurrency"])
	require.NotContains(t, decoded, "description")
}
