package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Roles in ascending order of privilege. Each role includes everything the
// roles below it may do: USER reads, STAFF also creates and updates, ADMIN
// also deletes.
const (
	RoleUser  = "USER"
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// Locals keys set by Auth.
const (
	localSubject = "subject"
	localRole    = "role"
)

func roleRank(role string) int {
	switch role {
	case RoleUser:
		return 1
	case RoleStaff:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Auth validates the Bearer token and stores the caller's subject and role
// in the request locals.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code: "MISSING_TOKEN", Message: "Authorization header required",
			})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code: "INVALID_TOKEN", Message: "expected: Bearer <token>",
			})
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims,
			func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil },
			jwt.WithValidMethods([]string{"HS256"}),
		)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code: "INVALID_TOKEN", Message: "token invalid or expired",
			})
		}

		subject, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if roleRank(role) == 0 {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code: "UNKNOWN_ROLE", Message: "token carries no recognized role",
			})
		}

		c.Locals(localSubject, subject)
		c.Locals(localRole, role)
		return c.Next()
	}
}

// RequireRole admits callers whose role is at least the given one.
func RequireRole(min string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(localRole).(string)
		if roleRank(role) < roleRank(min) {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code: "FORBIDDEN", Message: "insufficient role for this operation",
			})
		}
		return c.Next()
	}
}

// Subject returns the authenticated caller's identity, for the audit trail.
func Subject(c *fiber.Ctx) string {
	s, _ := c.Locals(localSubject).(string)
	return s
}
