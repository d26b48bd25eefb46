package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	attributedomain "catalog-admin-go/internal/domain/attribute"
	familydomain "catalog-admin-go/internal/domain/attributefamily"
	"catalog-admin-go/internal/i18n"
	"catalog-admin-go/internal/validation"
	"github.com/go-chi/chi/v5"
)

// Keys consumed by familydomain.Input or ignored outright; anything else is
// kept as passthrough data.
var reservedFamilyFields = map[string]struct{}{
	"id":               {},
	"code":             {},
	"name":             {},
	"status":           {},
	"is_user_defined":  {},
	"attribute_groups": {},
	"created_at":       {},
	"updated_at":       {},
	"_method":          {},
	"_token":           {},
}

type massDestroyRequest struct {
	Indexes idList `json:"indexes"`
	Method  string `json:"_method"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.Families.List(r.Context())
	if err != nil {
		h.log.InternalError("families.list: list families failed", err, "admin_id", adminID(r))
		h.writeInternalError(w, r)
		return
	}

	response := make([]familyResponse, 0, len(families))
	for i := range families {
		response = append(response, toFamilyResponse(&families[i]))
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Data: response})
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeFamilyInput(w, r)
	if err != nil {
		h.log.BusinessError("families.create: invalid body", err, "admin_id", adminID(r))
		h.writeDecodeError(w, r, err)
		return
	}

	family, err := h.Families.Create(r.Context(), input)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			h.log.BusinessError("families.create: validation failed", err, "admin_id", adminID(r), "code", input.Code)
			h.writeValidation(w, r, verr.Fields)
			return
		}
		h.log.InternalError("families.create: create family failed", err, "admin_id", adminID(r), "code", input.Code)
		h.writeInternalError(w, r)
		return
	}

	h.log.Info("families.create: family created", "admin_id", adminID(r), "family_id", family.ID, "code", family.Code)
	writeJSON(w, http.StatusCreated, dataEnvelope{
		Data:    toFamilyWithGroupsResponse(family),
		Message: h.message(r, i18n.KeyCreateSuccess, i18n.EntityFamily),
	})
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeNotFound(w, r)
		return
	}

	detail, err := h.Families.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get: family not found", err, "admin_id", adminID(r), "family_id", id)
			h.writeNotFound(w, r)
			return
		}
		h.log.InternalError("families.get: get family failed", err, "admin_id", adminID(r), "family_id", id)
		h.writeInternalError(w, r)
		return
	}

	summaries := make([]attributeSummaryResponse, 0, len(detail.CustomAttributes))
	for _, summary := range detail.CustomAttributes {
		summaries = append(summaries, toAttributeSummaryResponse(summary))
	}

	writeJSON(w, http.StatusOK, dataEnvelope{Data: familyDetailResponse{
		AttributeFamily:  toFamilyWithGroupsResponse(detail.Family),
		CustomAttributes: summaries,
	}})
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeNotFound(w, r)
		return
	}

	input, err := h.decodeFamilyInput(w, r)
	if err != nil {
		h.log.BusinessError("families.update: invalid body", err, "admin_id", adminID(r), "family_id", id)
		h.writeDecodeError(w, r, err)
		return
	}

	family, err := h.Families.Update(r.Context(), id, input)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			h.log.BusinessError("families.update: validation failed", err, "admin_id", adminID(r), "family_id", id)
			h.writeValidation(w, r, verr.Fields)
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.update: family not found", err, "admin_id", adminID(r), "family_id", id)
			h.writeNotFound(w, r)
		default:
			h.log.InternalError("families.update: update family failed", err, "admin_id", adminID(r), "family_id", id)
			h.writeInternalError(w, r)
		}
		return
	}

	h.log.Info("families.update: family updated", "admin_id", adminID(r), "family_id", family.ID)
	writeJSON(w, http.StatusOK, dataEnvelope{
		Data:    toFamilyWithGroupsResponse(family),
		Message: h.message(r, i18n.KeyUpdateSuccess, i18n.EntityFamily),
	})
}

func (h *Handlers) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeNotFound(w, r)
		return
	}

	if err := h.Families.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrDeleteFailed):
			h.log.InternalError("families.delete: store delete failed", err, "admin_id", adminID(r), "family_id", id)
			writeMessage(w, http.StatusInternalServerError, h.message(r, i18n.KeyDeleteFailed, i18n.EntityFamily))
		case errors.Is(err, familydomain.ErrFamilyNotFound):
			h.log.BusinessError("families.delete: family not found", err, "admin_id", adminID(r), "family_id", id)
			h.writeNotFound(w, r)
		case errors.Is(err, familydomain.ErrLastFamily):
			h.log.BusinessError("families.delete: last family", err, "admin_id", adminID(r), "family_id", id)
			writeMessage(w, http.StatusBadRequest, h.message(r, i18n.KeyLastDeleteError, i18n.EntityFamily))
		case errors.Is(err, familydomain.ErrFamilyInUse):
			h.log.BusinessError("families.delete: family used by products", err, "admin_id", adminID(r), "family_id", id)
			writeMessage(w, http.StatusBadRequest, h.message(r, i18n.KeyAttributeProductError, i18n.EntityAttributeFamily))
		default:
			h.log.InternalError("families.delete: delete family failed", err, "admin_id", adminID(r), "family_id", id)
			writeMessage(w, http.StatusInternalServerError, h.message(r, i18n.KeyDeleteFailed, i18n.EntityFamily))
		}
		return
	}

	h.log.Info("families.delete: family deleted", "admin_id", adminID(r), "family_id", id)
	writeMessage(w, http.StatusOK, h.message(r, i18n.KeyDeleteSuccess, i18n.EntityFamily))
}

func (h *Handlers) MassDestroyFamilies(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.writeInvalidBody(w, r)
		return
	}

	var req massDestroyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.log.BusinessError("families.mass_destroy: invalid body", err, "admin_id", adminID(r))
		h.writeInvalidBody(w, r)
		return
	}

	isDelete := r.Method == http.MethodDelete ||
		strings.EqualFold(r.Header.Get("X-HTTP-Method-Override"), http.MethodDelete) ||
		strings.EqualFold(strings.TrimSpace(req.Method), http.MethodDelete)

	var ids []uint64
	var rejected []string
	if isDelete {
		if len(req.Indexes.Tokens) == 0 {
			h.writeValidation(w, r, map[string][]string{
				"indexes": {"The indexes field is required."},
			})
			return
		}
		ids, rejected = parseIDs(req.Indexes.Tokens)
	}

	result, err := h.Families.BulkDelete(r.Context(), ids, isDelete)
	if err != nil {
		if errors.Is(err, familydomain.ErrMethodNotAllowed) {
			h.log.BusinessError("families.mass_destroy: wrong method", err, "admin_id", adminID(r), "method", r.Method)
			writeMessage(w, http.StatusOK, h.message(r, i18n.KeyMassMethodError, ""))
			return
		}
		h.log.InternalError("families.mass_destroy: bulk delete failed", err, "admin_id", adminID(r))
		h.writeInternalError(w, r)
		return
	}

	for _, failure := range result.Failed {
		h.log.BusinessError("families.mass_destroy: item not deleted", failure.Err, "admin_id", adminID(r), "family_id", failure.ID)
	}
	if len(rejected) > 0 {
		h.log.Warn("families.mass_destroy: rejected ids", "admin_id", adminID(r), "ids", rejected)
	}

	h.log.Info("families.mass_destroy: done", "admin_id", adminID(r), "deleted", len(result.Deleted), "failed", len(result.Failed)+len(rejected))
	if result.Partial() || len(rejected) > 0 {
		writeMessage(w, http.StatusOK, h.message(r, i18n.KeyMassPartialAction, i18n.EntityAttributeFamilyPlural))
		return
	}
	writeMessage(w, http.StatusOK, h.message(r, i18n.KeyMassDeleteSuccess, i18n.EntityAttributeFamilyPlural))
}

func (h *Handlers) decodeFamilyInput(w http.ResponseWriter, r *http.Request) (familydomain.Input, error) {
	var input familydomain.Input

	body, err := readBody(w, r)
	if err != nil {
		return input, err
	}
	if err := json.Unmarshal(body, &input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" && typeErr.Type != nil {
			verr := &validation.Error{}
			verr.Add(typeErr.Field, validation.WrongType(typeErr.Field, typeErr.Type.Kind()))
			return input, verr
		}
		return input, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return input, err
	}

	_, input.GroupsSet = fields["attribute_groups"]
	for key, raw := range fields {
		if _, ok := reservedFamilyFields[key]; ok {
			continue
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return input, err
		}
		if input.Extra == nil {
			input.Extra = make(map[string]any)
		}
		input.Extra[key] = value
	}

	return input, nil
}

type familyResponse struct {
	ID            uint64         `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Status        bool           `json:"status"`
	IsUserDefined bool           `json:"is_user_defined"`
	Extra         map[string]any `json:"extra,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type familyWithGroupsResponse struct {
	familyResponse
	AttributeGroups []groupResponse `json:"attribute_groups"`
}

type groupResponse struct {
	ID                uint64              `json:"id"`
	AttributeFamilyID uint64              `json:"attribute_family_id"`
	Name              string              `json:"name"`
	Position          int                 `json:"position"`
	IsUserDefined     bool                `json:"is_user_defined"`
	CustomAttributes  []attributeResponse `json:"custom_attributes"`
}

type attributeResponse struct {
	ID            uint64 `json:"id"`
	Code          string `json:"code"`
	AdminName     string `json:"admin_name"`
	Type          string `json:"type"`
	IsRequired    bool   `json:"is_required"`
	IsUserDefined bool   `json:"is_user_defined"`
}

type attributeSummaryResponse struct {
	ID        uint64 `json:"id"`
	Code      string `json:"code"`
	AdminName string `json:"admin_name"`
	Type      string `json:"type"`
}

type familyDetailResponse struct {
	AttributeFamily  familyWithGroupsResponse   `json:"attributeFamily"`
	CustomAttributes []attributeSummaryResponse `json:"custom_attributes"`
}

func toFamilyResponse(family *familydomain.AttributeFamily) familyResponse {
	return familyResponse{
		ID:            family.ID,
		Code:          family.Code,
		Name:          family.Name,
		Status:        family.Status,
		IsUserDefined: family.IsUserDefined,
		Extra:         family.Extra,
		CreatedAt:     family.CreatedAt,
		UpdatedAt:     family.UpdatedAt,
	}
}

func toFamilyWithGroupsResponse(family *familydomain.AttributeFamily) familyWithGroupsResponse {
	groups := make([]groupResponse, 0, len(family.AttributeGroups))
	for _, group := range family.AttributeGroups {
		attributes := make([]attributeResponse, 0, len(group.CustomAttributes))
		for _, attr := range group.CustomAttributes {
			attributes = append(attributes, toAttributeResponse(attr))
		}
		groups = append(groups, groupResponse{
			ID:                group.ID,
			AttributeFamilyID: group.AttributeFamilyID,
			Name:              group.Name,
			Position:          group.Position,
			IsUserDefined:     group.IsUserDefined,
			CustomAttributes:  attributes,
		})
	}

	return familyWithGroupsResponse{
		familyResponse:  toFamilyResponse(family),
		AttributeGroups: groups,
	}
}

func toAttributeResponse(attr attributedomain.Attribute) attributeResponse {
	return attributeResponse{
		ID:            attr.ID,
		Code:          attr.Code,
		AdminName:     attr.AdminName,
		Type:          attr.Type,
		IsRequired:    attr.IsRequired,
		IsUserDefined: attr.IsUserDefined,
	}
}

func toAttributeSummaryResponse(summary attributedomain.Summary) attributeSummaryResponse {
	return attributeSummaryResponse{
		ID:        summary.ID,
		Code:      summary.Code,
		AdminName: summary.AdminName,
		Type:      summary.Type,
	}
}
