package handlers

import (
	"sosmed/internal/repositories"
	"sosmed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts, comments and likes.
type PostHandler struct {
	service *services.ContentService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.ContentService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// RegisterRoutes registers the post routes with the Fiber app. Only the
// global feed and comment listings are public.
func (h *PostHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/posts", h.HandleListPosts)
	router.Get("/posts/user", authRequired, h.HandleListUserPosts)
	router.Post("/post", authRequired, h.HandleCreatePost)
	router.Post("/post/comment/:postId", authRequired, h.HandleAddComment)
	router.Get("/post/comment/:postId", h.HandleListComments)
	router.Post("/post/:postId", authRequired, h.HandleToggleLike)
}

// CreatePostRequest is the text part of a new post. Media arrives as the
// multipart file "file".
type CreatePostRequest struct {
	Content string `json:"content" form:"content"`
}

// HandleCreatePost creates a post for the current user.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "create post", err)
	}
	file, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, "create post", err)
	}

	post, err := h.service.CreatePost(c.UserContext(), principalID(c), req.Content, file)
	if err != nil {
		return respondError(c, "create post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully!",
		"post":    post,
	})
}

// CommentRequest represents the request body for a comment.
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// HandleAddComment adds a comment to a post.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "add comment", err)
	}

	comment, err := h.service.AddComment(c.UserContext(), principalID(c), c.Params("postId"), req.Text)
	if err != nil {
		return respondError(c, "add comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully!",
		"comment": comment,
	})
}

// HandleListComments returns the comments of a post.
func (h *PostHandler) HandleListComments(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	comments, err := h.service.ListComments(c.UserContext(), c.Params("postId"), page)
	if err != nil {
		return respondError(c, "list comments", err)
	}
	return c.JSON(fiber.Map{
		"comments": comments,
		"page":     page.Number,
		"limit":    page.Limit,
	})
}

// HandleToggleLike likes or unlikes a post for the current user.
func (h *PostHandler) HandleToggleLike(c *fiber.Ctx) error {
	result, err := h.service.ToggleLike(c.UserContext(), principalID(c), c.Params("postId"))
	if err != nil {
		return respondError(c, "toggle like", err)
	}
	message := "Post unliked!"
	if result.Liked {
		message = "Post liked!"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"liked":   result.Liked,
		"likes":   result.Post.LikerIDs(),
	})
}

// HandleListPosts returns the global feed.
func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	posts, err := h.service.ListPosts(c.UserContext(), page)
	if err != nil {
		return respondError(c, "list posts", err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  page.Number,
		"limit": page.Limit,
	})
}

// HandleListUserPosts returns the posts of the user named by ?userName=.
func (h *PostHandler) HandleListUserPosts(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	posts, err := h.service.ListUserPosts(c.UserContext(), c.Query("userName"), page)
	if err != nil {
		return respondError(c, "list user posts", err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  page.Number,
		"limit": page.Limit,
	})
}

func pageFromQuery(c *fiber.Ctx) repositories.Page {
	return repositories.Page{
		Number: c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}.Normalize()
}
