package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SteffanA/devconnector/internal/api/middleware"
	"github.com/SteffanA/devconnector/internal/api/services"
	"github.com/SteffanA/devconnector/internal/models"
	"github.com/SteffanA/devconnector/internal/repositories"
	"github.com/SteffanA/devconnector/internal/utils"
)

// profileScope preloads a profile's owner plus its experience and
// education entries, both most-recent-first.
func profileScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Education", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
}

func loadProfile(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := profileScope(repositories.DB).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GET /api/profile/me
// GetMyProfile godoc
// @Summary Get the authenticated user's profile
// @Tags Profile
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Router /api/profile/me [get]
func GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, profile)
}

type profileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	// Comma-separated on the wire, e.g. "Go, SQL, React".
	Skills    string `json:"skills"`
	Youtube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Linkedin  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

func (in *profileInput) validate() []utils.ErrorItem {
	var errs []utils.ErrorItem
	if err := validation.Validate(in.Status,
		validation.Required.Error("Status is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Skills,
		validation.Required.Error("Skills is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	return errs
}

func (in *profileInput) skillList() []string {
	parts := strings.Split(in.Skills, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// POST /api/profile
// UpsertProfile godoc
// @Summary Create or update the authenticated user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string][]utils.ErrorItem
// @Router /api/profile [post]
func UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	var input profileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}

	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	var profile models.Profile
	err = repositories.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ServerError(w)
		return
	}

	profile.UserID = userID
	profile.Company = input.Company
	profile.Website = input.Website
	profile.Location = input.Location
	profile.Bio = input.Bio
	profile.Status = input.Status
	profile.GithubUsername = input.GithubUsername
	profile.Skills = input.skillList()
	profile.Social = models.Social{
		Youtube:   input.Youtube,
		Twitter:   input.Twitter,
		Facebook:  input.Facebook,
		Linkedin:  input.Linkedin,
		Instagram: input.Instagram,
	}

	if err := repositories.DB.Save(&profile).Error; err != nil {
		utils.ServerError(w)
		return
	}

	saved, err := loadProfile(userID)
	if err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, saved)
}

// GET /api/profile
// ListProfiles godoc
// @Summary List all profiles
// @Tags Profile
// @Produce json
// @Success 200 {array} models.Profile
// @Router /api/profile [get]
func ListProfiles(w http.ResponseWriter, r *http.Request) {
	var profiles []models.Profile
	if err := profileScope(repositories.DB).Find(&profiles).Error; err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, profiles)
}

// GET /api/profile/user/{id}
//
// A malformed id maps to the same response as an unknown one so the
// storage layer's id format never shows through.
func GetProfileByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "Profile not found")
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "Profile not found")
			return
		}
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, profile)
}

type experienceInput struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

func (in *experienceInput) validate() []utils.ErrorItem {
	var errs []utils.ErrorItem
	if err := validation.Validate(in.Title,
		validation.Required.Error("Title is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Company,
		validation.Required.Error("Company is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.From,
		validation.Required.Error("From date is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	return errs
}

// PUT /api/profile/experience
func AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	var input experienceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		utils.ServerError(w)
		return
	}

	exp := models.Experience{
		ProfileID:   profile.ID,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		From:        input.From,
		To:          input.To,
		Current:     input.Current,
		Description: input.Description,
	}
	if err := repositories.DB.Create(&exp).Error; err != nil {
		utils.ServerError(w)
		return
	}

	saved, err := loadProfile(userID)
	if err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, saved)
}

// DELETE /api/profile/experience/{id}
//
// Removing an entry that does not exist (or an id that does not parse)
// is a deliberate no-op: the profile comes back unchanged.
func DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		utils.ServerError(w)
		return
	}

	if expID, err := uuid.Parse(r.PathValue("id")); err == nil {
		if err := repositories.DB.
			Where("id = ? AND profile_id = ?", expID, profile.ID).
			Delete(&models.Experience{}).Error; err != nil {
			utils.ServerError(w)
			return
		}
	}

	saved, err := loadProfile(userID)
	if err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, saved)
}

type educationInput struct {
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

func (in *educationInput) validate() []utils.ErrorItem {
	var errs []utils.ErrorItem
	if err := validation.Validate(in.School,
		validation.Required.Error("School is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.Degree,
		validation.Required.Error("Degree is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.FieldOfStudy,
		validation.Required.Error("Field of study is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	if err := validation.Validate(in.From,
		validation.Required.Error("From date is required"),
	); err != nil {
		errs = append(errs, utils.ErrorItem{Msg: err.Error()})
	}
	return errs
}

// PUT /api/profile/education
func AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	var input educationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		utils.ServerError(w)
		return
	}

	edu := models.Education{
		ProfileID:    profile.ID,
		School:       input.School,
		Degree:       input.Degree,
		FieldOfStudy: input.FieldOfStudy,
		From:         input.From,
		To:           input.To,
		Current:      input.Current,
		Description:  input.Description,
	}
	if err := repositories.DB.Create(&edu).Error; err != nil {
		utils.ServerError(w)
		return
	}

	saved, err := loadProfile(userID)
	if err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, saved)
}

// DELETE /api/profile/education/{id}
func DeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	profile, err := loadProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		utils.ServerError(w)
		return
	}

	if eduID, err := uuid.Parse(r.PathValue("id")); err == nil {
		if err := repositories.DB.
			Where("id = ? AND profile_id = ?", eduID, profile.ID).
			Delete(&models.Education{}).Error; err != nil {
			utils.ServerError(w)
			return
		}
	}

	saved, err := loadProfile(userID)
	if err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, saved)
}

// DELETE /api/profile
// DeleteAccount godoc
// @Summary Delete the authenticated user's account, profile and posts
// @Tags Profile
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/profile [delete]
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	// The whole cascade runs in one transaction: posts (with their
	// likes and comments), likes and comments the user left elsewhere,
	// the profile with its entries, and finally the user record.
	err = repositories.DB.Transaction(func(tx *gorm.DB) error {
		var postIDs []uuid.UUID
		if err := tx.Model(&models.Post{}).
			Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case err == nil:
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// account without a profile, nothing to cascade
		default:
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		utils.ServerError(w)
		return
	}

	utils.Message(w, http.StatusOK, "User deleted")
}

// GET /api/profile/github/{username}
// GithubRepos godoc
// @Summary List a GitHub user's most recent public repositories
// @Tags Profile
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} object
// @Failure 404 {object} map[string]string
// @Router /api/profile/github/{username} [get]
func GithubRepos(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	repos, err := services.Github.Repos(r.Context(), username)
	if err != nil {
		utils.Message(w, http.StatusNotFound, "No Github profile found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, repos)
}
