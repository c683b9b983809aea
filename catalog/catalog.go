// Package catalog is the compiled-in item data shown on the listing page.
package catalog

import (
	"time"

	models "item-listing/model"
)

const (
	TopSales = "Top Sales"
	NewItems = "New Items"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns a fresh copy of the two collections. "Super Ultra Hyper Amazing Weapon"
// is listed in both; "High Potion" is sold out.
func Default() []models.Collection {
	weapon := models.Item{Name: "Super Ultra Hyper Amazing Weapon", Price: 9999999999, UpdatedAt: day("2024-10-14")}
	return []models.Collection{
		{
			Name: TopSales,
			Items: []models.Item{
				{Name: "Potion", Price: 200, UpdatedAt: day("1991-10-25")},
				{Name: "High Potion", Price: 1000, UpdatedAt: day("2005-09-01"), IsSoldOut: true},
				{Name: "Elixir", Price: 1500000, UpdatedAt: day("2004-05-22")},
				{Name: "Iron Sword", Price: 200, UpdatedAt: day("1955-04-22")},
				weapon,
				{Name: "Stone", Price: 1, UpdatedAt: day("1900-01-01")},
			},
		},
		{
			Name: NewItems,
			Items: []models.Item{
				weapon,
				{Name: "Plasma Lifle", Price: 19000000, UpdatedAt: day("2024-10-05")},
				{Name: "Optical Camouflage", Price: 76000000, UpdatedAt: day("2024-10-01")},
			},
		},
	}
}

// SharedNames lists item names that appear in more than one collection, in
// first-seen order.
func SharedNames(collections []models.Collection) []string {
	seenIn := map[string]int{}
	var order []string
	for _, c := range collections {
		inThis := map[string]bool{}
		for _, it := range c.Items {
			if inThis[it.Name] {
				continue
			}
			inThis[it.Name] = true
			if seenIn[it.Name] == 0 {
				order = append(order, it.Name)
			}
			seenIn[it.Name]++
		}
	}
	out := []string{}
	for _, name := range order {
		if seenIn[name] > 1 {
			out = append(out, name)
		}
	}
	return out
}

// SoldOut returns every sold-out item occurrence across collections.
func SoldOut(collections []models.Collection) []models.Item {
	var out []models.Item
	for _, c := range collections {
		for _, it := range c.Items {
			if it.IsSoldOut {
				out = append(out, it)
			}
		}
	}
	return out
}
