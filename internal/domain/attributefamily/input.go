package attributefamily

import "strings"

// Input carries create and update payloads. Validation rules live in the tags.
type Input struct {
	Code            string       `json:"code" validate:"required,code,max=191"`
	Name            string       `json:"name" validate:"required,max=255"`
	Status          *bool        `json:"status"`
	IsUserDefined   *bool        `json:"is_user_defined"`
	AttributeGroups []GroupInput `json:"attribute_groups" validate:"dive"`

	// GroupsSet is true when attribute_groups was present in the request,
	// even as an empty list.
	GroupsSet bool           `json:"-"`
	Extra     map[string]any `json:"-"`
}

type GroupInput struct {
	ID               uint64         `json:"id"`
	Name             string         `json:"name" validate:"required,max=255"`
	Position         *int           `json:"position" validate:"omitempty,gte=0"`
	IsUserDefined    *bool          `json:"is_user_defined"`
	CustomAttributes []AttributeRef `json:"custom_attributes" validate:"dive"`
}

// AttributeRef points at an existing attribute by id or by code.
type AttributeRef struct {
	ID   uint64 `json:"id" validate:"required_without=Code"`
	Code string `json:"code" validate:"required_without=ID"`
}

func (in *Input) normalize() {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	for i := range in.AttributeGroups {
		group := &in.AttributeGroups[i]
		group.Name = strings.TrimSpace(group.Name)
		for j := range group.CustomAttributes {
			group.CustomAttributes[j].Code = strings.TrimSpace(group.CustomAttributes[j].Code)
		}
	}
}
