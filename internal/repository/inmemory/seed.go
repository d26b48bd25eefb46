package inmemory

import (
	"context"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
)

var defaultAttributes = []attributedomain.Attribute{
	{Code: "sku", AdminName: "SKU", Type: attributedomain.TypeText, IsRequired: true},
	{Code: "name", AdminName: "Name", Type: attributedomain.TypeText, IsRequired: true},
	{Code: "url_key", AdminName: "URL Key", Type: attributedomain.TypeText, IsRequired: true},
	{Code: "description", AdminName: "Description", Type: attributedomain.TypeTextarea, IsRequired: true},
	{Code: "price", AdminName: "Price", Type: attributedomain.TypePrice, IsRequired: true},
	{Code: "status", AdminName: "Status", Type: attributedomain.TypeBoolean, IsRequired: true},
	{Code: "color", AdminName: "Color", Type: attributedomain.TypeSelect, IsUserDefined: true},
	{Code: "size", AdminName: "Size", Type: attributedomain.TypeSelect, IsUserDefined: true},
}

var defaultGroups = []struct {
	name  string
	codes []string
}{
	{name: "General", codes: []string{"sku", "name", "url_key", "status", "color", "size"}},
	{name: "Description", codes: []string{"description"}},
	{name: "Price", codes: []string{"price"}},
}

// SeedDefaults loads the same default family and attributes as the SQL seed migration.
func (c *Catalog) SeedDefaults(ctx context.Context) error {
	byCode := make(map[string]uint64, len(defaultAttributes))
	for _, attr := range defaultAttributes {
		stored := c.SeedAttribute(attr)
		byCode[stored.Code] = stored.ID
	}

	return c.Transaction(ctx, func(tx familydomain.Repository) error {
		family := familydomain.AttributeFamily{Code: "default", Name: "Default", Status: false, IsUserDefined: false}
		if err := tx.Create(ctx, &family); err != nil {
			return err
		}

		for i, def := range defaultGroups {
			group := familydomain.AttributeGroup{
				AttributeFamilyID: family.ID,
				Name:              def.name,
				Position:          i + 1,
			}
			if err := tx.CreateGroup(ctx, &group); err != nil {
				return err
			}

			ids := make([]uint64, 0, len(def.codes))
			for _, code := range def.codes {
				ids = append(ids, byCode[code])
			}
			if err := tx.ReplaceGroupAttributes(ctx, group.ID, ids); err != nil {
				return err
			}
		}
		return nil
	})
}
