// Package validation holds the pure field rules applied before any write.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ForbiddenUsername collides with the /users/me route.
const ForbiddenUsername = "me"

// Password bounds for registration and password changes. MaxPasswordBytes
// is the bcrypt input limit.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// IDSet is a lookup of ids known to exist in the store.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// ValidateUsername checks the allowed character set and the reserved name.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return types.NewFieldError(types.ErrInvalidField, "username", "username is required")
	}
	if utf8.RuneCountInString(username) > models.UserFieldMaxLength {
		return types.NewFieldError(types.ErrInvalidField, "username", "username must be at most %d characters", models.UserFieldMaxLength)
	}
	if strings.EqualFold(username, ForbiddenUsername) {
		return types.NewFieldError(types.ErrInvalidField, "username", "username %q is not allowed", username)
	}
	if !usernamePattern.MatchString(username) {
		return types.NewFieldError(types.ErrInvalidField, "username", "username may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return types.NewFieldError(types.ErrInvalidField, "password", "password must be at least %d characters", MinPasswordLength)
	}
	if utf8.RuneCountInString(password) > models.UserFieldMaxLength {
		return types.NewFieldError(types.ErrInvalidField, "password", "password must be at most %d characters", models.UserFieldMaxLength)
	}
	// bcrypt refuses longer input
	if len(password) > MaxPasswordBytes {
		return types.NewFieldError(types.ErrInvalidField, "password", "password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateTag checks a catalog tag before it is stored.
func ValidateTag(name, color, slug string) error {
	if err := requireText("name", name, models.NameMaxLength); err != nil {
		return err
	}
	if !colorPattern.MatchString(color) {
		return types.NewFieldError(types.ErrInvalidField, "color", "color must be a hex value like #49B64E")
	}
	if slug == "" || utf8.RuneCountInString(slug) > models.SlugMaxLength {
		return types.NewFieldError(types.ErrInvalidField, "slug", "slug must be 1 to %d characters", models.SlugMaxLength)
	}
	if !slugPattern.MatchString(slug) {
		return types.NewFieldError(types.ErrInvalidField, "slug", "slug may contain only latin letters, digits, - and _")
	}
	return nil
}

func ValidateIngredient(name, unit string) error {
	if err := requireText("name", name, models.NameMaxLength); err != nil {
		return err
	}
	return requireText("measurement_unit", unit, models.NameMaxLength)
}

func ValidateCookingTime(minutes int) error {
	if minutes < models.MinCookingTime || minutes > models.MaxCookingTime {
		return types.NewFieldError(types.ErrInvalidDuration, "cooking_time",
			"cooking time must be between %d and %d minutes", models.MinCookingTime, models.MaxCookingTime)
	}
	return nil
}

// ValidateTags requires a non-empty list of distinct, known tag ids.
func ValidateTags(ids []uuid.UUID, known IDSet) error {
	if len(ids) == 0 {
		return types.NewFieldError(types.ErrInvalidTagSet, "tags", "at least one tag is required")
	}
	seen := make(IDSet, len(ids))
	for _, id := range ids {
		if !known.Has(id) {
			return types.NewFieldError(types.ErrInvalidTagSet, "tags", "tag %s does not exist", id)
		}
		if seen.Has(id) {
			return types.NewFieldError(types.ErrInvalidTagSet, "tags", "tag %s is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateIngredients requires a non-empty list of distinct, known
// ingredients with positive amounts.
func ValidateIngredients(items []types.RecipeIngredientInput, known IDSet) error {
	if len(items) == 0 {
		return types.NewFieldError(types.ErrInvalidIngredientSet, "ingredients", "at least one ingredient is required")
	}
	seen := make(IDSet, len(items))
	for _, item := range items {
		if !known.Has(item.ID) {
			return types.NewFieldError(types.ErrInvalidIngredientSet, "ingredients", "ingredient %s does not exist", item.ID)
		}
		if seen.Has(item.ID) {
			return types.NewFieldError(types.ErrInvalidIngredientSet, "ingredients", "ingredient %s is listed more than once", item.ID)
		}
		if item.Amount < models.MinAmount || item.Amount > models.MaxAmount {
			return types.NewFieldError(types.ErrInvalidIngredientSet, "ingredients",
				"amount of ingredient %s must be between %d and %d", item.ID, models.MinAmount, models.MaxAmount)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// ValidateRecipe checks a recipe payload against the known tag and
// ingredient ids. It never touches the store.
func ValidateRecipe(req *types.RecipeRequest, knownTags, knownIngredients IDSet) error {
	if err := requireText("name", req.Name, models.NameMaxLength); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" {
		return types.NewFieldError(types.ErrInvalidField, "text", "text is required")
	}
	if err := ValidateCookingTime(req.CookingTime); err != nil {
		return err
	}
	if err := ValidateTags(req.Tags, knownTags); err != nil {
		return err
	}
	return ValidateIngredients(req.Ingredients, knownIngredients)
}

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return types.NewFieldError(types.ErrInvalidField, field, "%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return types.NewFieldError(types.ErrInvalidField, field, "%s must be at most %d characters", field, max)
	}
	return nil
}
