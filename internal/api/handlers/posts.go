package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SteffanA/devconnector/internal/api/middleware"
	"github.com/SteffanA/devconnector/internal/models"
	"github.com/SteffanA/devconnector/internal/repositories"
	"github.com/SteffanA/devconnector/internal/utils"
)

// postScope preloads likes and comments most-recent-first.
func postScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
}

// loadPost fetches a post by its path id. A malformed id is reported
// the same way as a missing post. The bool is false when the handler
// already wrote a response.
func loadPost(w http.ResponseWriter, idStr string) (*models.Post, bool) {
	postID, err := uuid.Parse(idStr)
	if err != nil {
		utils.Message(w, http.StatusNotFound, "Post not found")
		return nil, false
	}

	var post models.Post
	if err := postScope(repositories.DB).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusNotFound, "Post not found")
			return nil, false
		}
		utils.ServerError(w)
		return nil, false
	}
	return &post, true
}

func postLikes(w http.ResponseWriter, postID uuid.UUID) ([]models.Like, bool) {
	var likes []models.Like
	if err := repositories.DB.
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error; err != nil {
		utils.ServerError(w)
		return nil, false
	}
	return likes, true
}

func postComments(w http.ResponseWriter, postID uuid.UUID) ([]models.Comment, bool) {
	var comments []models.Comment
	if err := repositories.DB.
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		utils.ServerError(w)
		return nil, false
	}
	return comments, true
}

type postInput struct {
	Text string `json:"text"`
}

func (in *postInput) validate() []utils.ErrorItem {
	if err := validation.Validate(in.Text,
		validation.Required.Error("Text field must not be empty"),
	); err != nil {
		return []utils.ErrorItem{{Msg: err.Error()}}
	}
	return nil
}

// POST /api/posts
// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string][]utils.ErrorItem
// @Router /api/posts [post]
func CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
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

	post := models.Post{
		UserID: userID,
		Text:   input.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := repositories.DB.Create(&post).Error; err != nil {
		utils.ServerError(w)
		return
	}

	utils.JSONResponse(w, http.StatusOK, post)
}

// GET /api/posts
// ListPosts godoc
// @Summary List all posts, most recent first
// @Tags Posts
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Success 200 {array} models.Post
// @Router /api/posts [get]
func ListPosts(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	if err := postScope(repositories.DB).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		utils.ServerError(w)
		return
	}
	utils.JSONResponse(w, http.StatusOK, posts)
}

// GET /api/posts/{id}
func GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
		return
	}
	utils.JSONResponse(w, http.StatusOK, post)
}

// DELETE /api/posts/{id}
func DeletePost(w http.ResponseWriter, r *http.Request) {
	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
		return
	}

	// Ownership: only the author may remove a post.
	if post.UserID.String() != middleware.UserID(r) {
		utils.Message(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", post.ID).Error
	})
	if err != nil {
		utils.ServerError(w)
		return
	}

	utils.Message(w, http.StatusOK, "Post removed")
}

// PUT /api/posts/like/{id}
// LikePost godoc
// @Summary Like a post
// @Tags Posts
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Param id path string true "Post id"
// @Success 200 {array} models.Like
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/posts/like/{id} [put]
func LikePost(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
		return
	}

	// The unique index on (post_id, user_id) backs this check, so two
	// concurrent likes by the same user cannot both land.
	like := models.Like{PostID: post.ID, UserID: userID}
	if err := repositories.DB.Create(&like).Error; err != nil {
		utils.Message(w, http.StatusBadRequest, "Post already liked")
		return
	}

	likes, ok := postLikes(w, post.ID)
	if !ok {
		return
	}
	utils.JSONResponse(w, http.StatusOK, likes)
}

// PUT /api/posts/unlike/{id}
func UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
		return
	}

	res := repositories.DB.
		Where("post_id = ? AND user_id = ?", post.ID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		utils.ServerError(w)
		return
	}
	if res.RowsAffected == 0 {
		utils.Message(w, http.StatusBadRequest, "Post has not been liked")
		return
	}

	likes, ok := postLikes(w, post.ID)
	if !ok {
		return
	}
	utils.JSONResponse(w, http.StatusOK, likes)
}

// POST /api/posts/comment/{id}
// CommentOnPost godoc
// @Summary Comment on a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param x-auth-token header string true "Bearer token"
// @Param id path string true "Post id"
// @Success 200 {array} models.Comment
// @Failure 400 {object} map[string][]utils.ErrorItem
// @Failure 404 {object} map[string]string
// @Router /api/posts/comment/{id} [post]
func CommentOnPost(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.UserID(r))
	if err != nil {
		utils.ServerError(w)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.ValidationErrors(w, []utils.ErrorItem{{Msg: "Invalid input"}})
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		utils.ValidationErrors(w, errs)
		return
	}

	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
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

	comment := models.Comment{
		PostID: post.ID,
		UserID: userID,
		Text:   input.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := repositories.DB.Create(&comment).Error; err != nil {
		utils.ServerError(w)
		return
	}

	comments, ok := postComments(w, post.ID)
	if !ok {
		return
	}
	utils.JSONResponse(w, http.StatusOK, comments)
}

// DELETE /api/posts/comment/{id}/{comment_id}
func DeleteComment(w http.ResponseWriter, r *http.Request) {
	post, ok := loadPost(w, r.PathValue("id"))
	if !ok {
		return
	}

	commentID, err := uuid.Parse(r.PathValue("comment_id"))
	if err != nil {
		utils.Message(w, http.StatusNotFound, "Comment not found")
		return
	}

	var comment models.Comment
	if err := repositories.DB.
		Where("id = ? AND post_id = ?", commentID, post.ID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Message(w, http.StatusNotFound, "Comment not found")
			return
		}
		utils.ServerError(w)
		return
	}

	// Only the comment's author may remove it, not the post owner.
	if comment.UserID.String() != middleware.UserID(r) {
		utils.Message(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := repositories.DB.Delete(&comment).Error; err != nil {
		utils.ServerError(w)
		return
	}

	comments, ok := postComments(w, post.ID)
	if !ok {
		return
	}
	utils.JSONResponse(w, http.StatusOK, comments)
}
