package ssl

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// TlsHandler 安全响应头中间件
//
// sslRedirect 为 true 时把 http 请求重定向到 host:port 的 https 地址。
func TlsHandler(host string, port int, sslRedirect bool) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:        sslRedirect,
		SSLHost:            host + ":" + strconv.Itoa(port),
		ContentTypeNosniff: true,
		FrameDeny:          true,
	})

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)

		// Process 已经写入了重定向响应，这里只中止 Gin 的处理链
		if err != nil {
			c.Abort()
			return
		}

		c.Next()
	}
}
