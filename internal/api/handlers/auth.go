package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SteffanA/devconnector/internal/api/middleware"
	"github.com/SteffanA/devconnector/internal/config"
	"github.com/SteffanA/devconnector/internal/models"
	"github.com/SteffanA/devconnector/internal/repositories"
	"github.com/SteffanA/devconnector/internal/security"
	"github.com/SteffanA/devconnector/internal/utils"
)

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *registerInput) validate() []utils.ErrorItem {
	var errs []utils.ErrorItem
	if err := validation.Validate(in.Name,
		validation.Required.Error("Name is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Email,
		validation.Required.Error("Please include a valid email"),
		is.Email.Error("Please include a valid email"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Password,
		validation.Required.Error("Please enter a password with 6 or more characters"),
		validation.Length(6, 0).Error("Please enter a password with 6 or more characters"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	return errs
}

// POST /api/users
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input registerInput

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}

	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	var existing models.User
	err := repositories.DB.Where("email = ?", input.Email).First(&existing).Error
	switch {
	case err == nil:
		// Email already registered. No second user row is created.
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "User already exists"}})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// new user, continue
	default:
		utils.ServerError(w)
		return
	}

	hashed, err := security.HashPassword(input.Password)
	if err != nil {
		utils.ServerError(w)
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Avatar:   utils.GravatarURL(input.Email),
	}

	if err := repositories.DB.Create(&user).Error; err != nil {
		utils.ServerError(w)
		return
	}

	// Token issued right away so registration doubles as login.
	token, err := security.IssueToken(config.Envs.JWTSecret, user.ID.String(), config.Envs.TokenTTL)
	if err != nil {
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *loginInput) validate() []utils.ErrorItem {
	var errs []utils.ErrorItem
	if err := validation.Validate(in.Email,
		validation.Required.Error("Please include a valid email"),
		is.Email.Error("Please include a valid email"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Password,
		validation.Required.Error("Password is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	return errs
}

// POST /api/auth
//
// The unknown-email and wrong-password paths return identical bodies so
// the endpoint cannot be used to enumerate accounts.
func LoginUser(w http.ResponseWriter, r *http.Request) {
	var input loginInput

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}

	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	var user models.User
	err := repositories.DB.Where("email = ?", input.Email).First(&user).Error
	switch {
	case err == nil:
		// user found
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid credentials"}})
		return
	default:
		utils.ServerError(w)
		return
	}

	if err := security.ComparePassword(user.Password, input.Password); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid credentials"}})
		return
	}

	token, err := security.IssueToken(config.Envs.JWTSecret, user.ID.String(), config.Envs.TokenTTL)
	if err != nil {
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]string{"token": token})
}

// GET /api/auth
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.Message(w, http.StatusNotFound, "User not found")
		return
	}

	var user models.User
	if err := repositories.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusNotFound, "User not found")
			return
		}
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, user)
}
