package i

import "github.com/gin-gonic/gin"

// Controller registers a feature's routes on the shared router group.
type Controller interface {
	RegisterRoutes(*gin.RouterGroup)
}
