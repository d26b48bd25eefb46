package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

type Key string

const (
	KeyCreateSuccess         Key = "response.create-success"
	KeyUpdateSuccess         Key = "response.update-success"
	KeyDeleteSuccess         Key = "response.delete-success"
	KeyDeleteFailed          Key = "response.delete-failed"
	KeyLastDeleteError       Key = "response.last-delete-error"
	KeyAttributeProductError Key = "response.attribute-product-error"
	KeyNotFound              Key = "response.not-found"
	KeyValidationError       Key = "response.validation-error"
	KeyInvalidRequest        Key = "response.invalid-request"
	KeyInternalError         Key = "response.internal-error"
	KeyMassDeleteSuccess     Key = "mass-ops.delete-success"
	KeyMassPartialAction     Key = "mass-ops.partial-action"
	KeyMassMethodError       Key = "mass-ops.method-error"
)

// Entity names are catalog entries too so they are translated with the message.
const (
	EntityFamily                = "Family"
	EntityAttributeFamily       = "Attribute family"
	EntityAttributeFamilyPlural = "Attribute Family"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		string(KeyCreateSuccess):         "%s created successfully.",
		string(KeyUpdateSuccess):         "%s updated successfully.",
		string(KeyDeleteSuccess):         "%s deleted successfully.",
		string(KeyDeleteFailed):          "Error encountered while deleting %s.",
		string(KeyLastDeleteError):       "At least one %s is required.",
		string(KeyAttributeProductError): "%s is used in products.",
		string(KeyNotFound):              "%s not found.",
		string(KeyValidationError):       "The given data was invalid.",
		string(KeyInvalidRequest):        "The request body is invalid.",
		string(KeyInternalError):         "Something went wrong, please try again later.",
		string(KeyMassDeleteSuccess):     "Selected %s were successfully deleted.",
		string(KeyMassPartialAction):     "Some actions were not performed due to restricted system constraints on %s.",
		string(KeyMassMethodError):       "Error! Wrong method detected, please check mass action configuration.",
		EntityFamily:                     "Family",
		EntityAttributeFamily:            "Attribute family",
		EntityAttributeFamilyPlural:      "Attribute Family",
	},
	language.French: {
		string(KeyCreateSuccess):         "%s créé avec succès.",
		string(KeyUpdateSuccess):         "%s mis à jour avec succès.",
		string(KeyDeleteSuccess):         "%s supprimé avec succès.",
		string(KeyDeleteFailed):          "Erreur rencontrée lors de la suppression de %s.",
		string(KeyLastDeleteError):       "Au moins un élément %s est requis.",
		string(KeyAttributeProductError): "%s est utilisé dans des produits.",
		string(KeyNotFound):              "%s introuvable.",
		string(KeyValidationError):       "Les données fournies sont invalides.",
		string(KeyInvalidRequest):        "Le corps de la requête est invalide.",
		string(KeyInternalError):         "Une erreur est survenue, veuillez réessayer plus tard.",
		string(KeyMassDeleteSuccess):     "Les éléments %s sélectionnés ont été supprimés.",
		string(KeyMassPartialAction):     "Certaines actions n'ont pas été effectuées en raison de contraintes système sur %s.",
		string(KeyMassMethodError):       "Erreur ! Mauvaise méthode détectée, veuillez vérifier la configuration de l'action de masse.",
		EntityFamily:                     "Famille",
		EntityAttributeFamily:            "Famille d'attributs",
		EntityAttributeFamilyPlural:      "Famille d'attributs",
	},
}

func newCatalog() (*catalog.Builder, []language.Tag, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := []language.Tag{language.English, language.French}
	for _, tag := range tags {
		for key, msg := range translations[tag] {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, nil, err
			}
		}
	}
	return builder, tags, nil
}
