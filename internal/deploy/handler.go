package deploy

import (
	"errors"

	"github.com/funnelforge/api/internal/funnel"
	"github.com/funnelforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
)

func DeployHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	deployment, err := Deploy(c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, funnel.ErrNotFound) {
			return response.NotFound(c, "Funnel")
		}
		if errors.Is(err, ErrNoVersions) {
			return response.BadRequest(c, "Save the funnel before publishing", nil)
		}
		return response.InternalError(c, "Failed to publish funnel")
	}

	return response.Created(c, deployment, "Funnel published successfully")
}

func LatestDeploymentHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	deployment, err := GetLatestDeployment(c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, funnel.ErrNotFound) {
			return response.NotFound(c, "Funnel")
		}
		return response.InternalError(c, "Failed to load deployment")
	}
	if deployment == nil {
		return response.NotFound(c, "Deployment")
	}

	return response.Success(c, deployment, "")
}

func ListVersionsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	versions, err := ListVersions(c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, funnel.ErrNotFound) {
			return response.NotFound(c, "Funnel")
		}
		return response.InternalError(c, "Failed to load versions")
	}

	return response.Success(c, versions, "")
}

func UnpublishHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	if err := Unpublish(c.Params("id"), userID); err != nil {
		if errors.Is(err, funnel.ErrNotFound) {
			return response.NotFound(c, "Funnel")
		}
		return response.InternalError(c, "Failed to unpublish funnel")
	}

	return response.Success(c, nil, "Funnel unpublished successfully")
}
