package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sthapati/sthapati_be/internal/apperrors"
	"github.com/sthapati/sthapati_be/internal/middleware"
	"github.com/sthapati/sthapati_be/internal/models"
	"github.com/sthapati/sthapati_be/internal/store"
	"github.com/sthapati/sthapati_be/internal/validation"
)

type PostHandler struct {
	Posts     PostRepo
	Validator *validation.Validator
}

type CreatePostReq struct {
	Type    string   `json:"type" validate:"omitempty,oneof=post article gallery"`
	Title   string   `json:"title" validate:"max=200"`
	Content string   `json:"content" validate:"required,max=20000"`
	Images  []string `json:"images" validate:"omitempty,max=20,dive,url"`
	Tags    []string `json:"tags" validate:"omitempty,max=20"`
}

type UpdatePostReq struct {
	Title   *string   `json:"title" validate:"omitempty,max=200"`
	Content *string   `json:"content" validate:"omitempty,min=1,max=20000"`
	Images  *[]string `json:"images" validate:"omitempty,max=20,dive,url"`
	Tags    *[]string `json:"tags" validate:"omitempty,max=20"`
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	var f store.PostFilter
	if raw := c.Query("type"); raw != "" {
		t := models.PostType(strings.ToLower(raw))
		if !t.Valid() {
			return apperrors.BadRequest("Unknown post type")
		}
		f.Type = t
	}
	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.BadRequest("Invalid author")
		}
		f.AuthorID = id
	}

	p := pageFrom(c)
	posts, total, err := h.Posts.List(c.UserContext(), f, p)
	if err != nil {
		return apperrors.Internal("Failed to list posts", err)
	}
	for i := range posts {
		if posts[i].Author != nil {
			posts[i].Author = authorView(posts[i].Author)
		}
	}
	return respondPage(c, posts, p, total)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	if post.Author != nil {
		post.Author = authorView(post.Author)
	}

	view := postView{Post: post}
	if uid, ok := middleware.UserID(c); ok {
		if view.Liked, err = h.Posts.LikedBy(ctx, post.ID, uid); err != nil {
			return apperrors.Internal("Failed to load post", err)
		}
	}
	return respond(c, fiber.StatusOK, "", view)
}

type postView struct {
	*models.Post
	Liked bool `json:"liked"`
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req CreatePostReq
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	postType := models.PostTypePost
	if req.Type != "" {
		postType = models.PostType(req.Type)
	}
	if postType == models.PostTypeArticle && req.Title == "" {
		return apperrors.Validation(map[string]string{"title": "Title is required for articles"})
	}

	post := &models.Post{
		AuthorID: u.ID,
		Type:     postType,
		Title:    req.Title,
		Content:  req.Content,
		Images:   trimList(req.Images),
		Tags:     trimList(req.Tags),
	}
	if err := h.Posts.Create(c.UserContext(), post); err != nil {
		return apperrors.Internal("Failed to create post", err)
	}
	return respond(c, fiber.StatusCreated, "Post created", post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Validator.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	if post.AuthorID != u.ID {
		return apperrors.Forbidden("Only the author can edit this post")
	}

	setTrimmed(&post.Title, req.Title)
	setTrimmed(&post.Content, req.Content)
	if req.Images != nil {
		post.Images = trimList(*req.Images)
	}
	if req.Tags != nil {
		post.Tags = trimList(*req.Tags)
	}
	if post.Content == "" {
		return apperrors.Validation(map[string]string{"content": "This field is required"})
	}
	if post.Type == models.PostTypeArticle && post.Title == "" {
		return apperrors.Validation(map[string]string{"title": "Title is required for articles"})
	}

	if err := h.Posts.Save(ctx, post); err != nil {
		return apperrors.Internal("Failed to update post", err)
	}
	if post.Author != nil {
		post.Author = authorView(post.Author)
	}
	return respond(c, fiber.StatusOK, "Post updated", post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	post, err := h.Posts.ByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	if post.AuthorID != u.ID && !u.IsAdmin {
		return apperrors.Forbidden("You cannot delete this post")
	}
	if err := h.Posts.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Post not found")
	}
	return respond(c, fiber.StatusOK, "Post deleted", nil)
}

func (h *PostHandler) Like(c *fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	liked, count, err := h.Posts.ToggleLike(c.UserContext(), id, u.ID)
	if errors.Is(err, store.ErrDuplicate) {
		// a concurrent like from the same user won the insert
		return apperrors.Conflict("Like already in progress, please retry")
	}
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"liked": liked, "likesCount": count})
}

// authorView strips an embedded user down to what a feed shows.
func authorView(u *models.User) *models.User {
	return &models.User{
		ID:        u.ID,
		Name:      u.Name,
		Category:  u.Category,
		Status:    u.Status,
		AvatarURL: u.AvatarURL,
		Location:  u.Location,
		Company:   u.Company,
	}
}
