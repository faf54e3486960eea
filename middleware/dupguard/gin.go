package dupguard

import "github.com/gin-gonic/gin"

// GinSessionMiddleware é o equivalente de SessionMiddleware para routers gin.
// Handlers de forms montados com gin.WrapH enxergam a sessão normalmente.
func GinSessionMiddleware(opts SessionOptions) gin.HandlerFunc {
	opts.defaults()

	return func(c *gin.Context) {
		c.Request = opts.attach(c.Writer, c.Request)
		c.Next()
	}
}
