package controller

import (
	"loan-assist-be/pkg/token"

	"github.com/gofiber/fiber/v2"
)

type ILetterController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type letterController struct {
	tokens token.Store
}

func NewLetterController(tokens token.Store) ILetterController {
	return &letterController{
		tokens: tokens,
	}
}

func (c *letterController) RegisterRoutes(r fiber.Router) {
	r.Get("/letters/:token", c.Download)
}

func (c *letterController) Download(ctx *fiber.Ctx) error {
	// Single use. The token is consumed even if the download is
	// interrupted; a fresh one requires re-querying the session.
	path, found, err := c.tokens.Take(ctx.Context(), ctx.Params("token"))
	if err != nil {
		return err
	}
	if !found {
		return fiber.NewError(fiber.StatusGone, "download link expired or already used")
	}

	return ctx.Download(path)
}
