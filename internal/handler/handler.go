package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"hearth/internal/core"
	"hearth/internal/middleware"
	"hearth/internal/storage"
)

var validate = validator.New()

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var errs []string
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("%s is too short", e.Field())
	case "max":
		return fmt.Sprintf("%s is too long", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be positive", e.Field())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// authedUser resolves the authenticated user from the gin context,
// requiring household membership. Endpoints reached before joining a
// household use authedUserAny instead.
func authedUser(c *gin.Context, store *storage.Store) (core.User, bool) {
	user, ok := authedUserAny(c, store)
	if !ok {
		return core.User{}, false
	}
	if user.HouseholdID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not part of a household"})
		return core.User{}, false
	}
	return user, true
}

func authedUserAny(c *gin.Context, store *storage.Store) (core.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return core.User{}, false
	}
	user, err := store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		}
		return core.User{}, false
	}
	return user, true
}

// periodFromQuery reads optional month/year query params. Both absent
// yields a zero period, which callers treat as the current month.
func periodFromQuery(c *gin.Context) (core.Period, error) {
	monthStr := c.Query("month")
	yearStr := c.Query("year")
	if monthStr == "" && yearStr == "" {
		return core.Period{}, nil
	}
	if monthStr == "" || yearStr == "" {
		return core.Period{}, errors.New("month and year must be supplied together")
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return core.Period{}, errors.New("month must be a number")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return core.Period{}, errors.New("year must be a number")
	}

	period := core.Period{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		return core.Period{}, err
	}
	return period, nil
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}

// respondWriteError maps write-path failures onto HTTP statuses:
// missing rows are 404, domain validation failures are 400, the rest
// are 500.
func respondWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case isDomainError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func isDomainError(err error) bool {
	for _, domainErr := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidMonth,
		core.ErrInvalidYear,
		core.ErrInvalidDayOfMonth,
		core.ErrEmptyName,
		core.ErrEmptyDescription,
		core.ErrZeroDate,
		core.ErrSelfSettlement,
		core.ErrMissingHousehold,
		core.ErrCrossHouseholdUser,
	} {
		if errors.Is(err, domainErr) {
			return true
		}
	}
	return false
}
