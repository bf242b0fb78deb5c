package middleware

import (
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AllowIPs guards operator endpoints such as /metrics. Entries are single
// addresses or CIDR networks; an empty list leaves the endpoint open.
func AllowIPs(entries []string) gin.HandlerFunc {
	var (
		ips      []net.IP
		networks []*net.IPNet
	)
	for _, entry := range entries {
		if _, network, err := net.ParseCIDR(entry); err == nil {
			networks = append(networks, network)
		} else if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		} else {
			log.Printf("Warning: ignoring invalid allowed_ips entry %q", entry)
		}
	}

	if len(entries) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		client := net.ParseIP(c.ClientIP())
		if client != nil {
			for _, ip := range ips {
				if ip.Equal(client) {
					c.Next()
					return
				}
			}
			for _, n := range networks {
				if n.Contains(client) {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}
