package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/classpoint/classroom-service/internal/config"
	"github.com/classpoint/classroom-service/internal/services"
	"github.com/classpoint/classroom-service/internal/utils"
)

const contextActorKey = "actor"

// AuthMiddleware verifies bearer tokens. When Casdoor is configured the token
// is delegated to the Casdoor SDK; otherwise the service's own HS256 tokens
// are accepted.
type AuthMiddleware struct {
	casdoor *casdoorsdk.Client
	tokens  *utils.TokenManager
}

func NewAuthMiddleware(cfg config.CasdoorConfig, tokens *utils.TokenManager) *AuthMiddleware {
	m := &AuthMiddleware{tokens: tokens}
	if cfg.Enabled() {
		m.casdoor = casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Cert,
			cfg.Application,
			cfg.Organization,
		)
	}
	return m
}

func (m *AuthMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "authorization header missing or malformed")
			return
		}

		actor, err := m.resolveActor(token)
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("invalid token: %v", err))
			return
		}

		c.Set(contextActorKey, actor)
		c.Set("user_id", actor.ID)
		c.Set("user_email", actor.Email)
		c.Next()
	}
}

func (m *AuthMiddleware) resolveActor(token string) (services.Actor, error) {
	if m.casdoor != nil {
		claims, err := m.casdoor.ParseJwtToken(token)
		if err != nil {
			return services.Actor{}, err
		}
		return services.Actor{
			ID:    claims.User.Id,
			Name:  claims.User.DisplayName,
			Email: claims.User.Email,
		}, nil
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: message})
}
