package config

// AuthConfig controls write protection.  Auth is disabled when JWTSecret is
// empty; in that case POST and DELETE on /movies are open.
type AuthConfig struct {
    JWTSecret         string // secret used to sign and verify admin tokens
    AdminUser         string // username accepted by POST /auth/token
    AdminPasswordHash string // bcrypt hash of the admin password
    AccessTTLMin      int    // token lifetime in minutes
    BcryptCost        int    // cost used by cmd/hashpw
}

func LoadAuthConfig() AuthConfig {
    return AuthConfig{
        JWTSecret:         envStr("JWT_SECRET", ""),
        AdminUser:         envStr("ADMIN_USER", "admin"),
        AdminPasswordHash: envStr("ADMIN_PASSWORD_HASH", ""),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 60),
        BcryptCost:        envInt("BCRYPT_COST", 12),
    }
}

// Enabled reports whether write routes require an admin token.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }
