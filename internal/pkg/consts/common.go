package consts

const (
	ImagePrefix     = "public/images/"
	DerivativeExt   = ".jpg"
	DerivativeMime  = "image/jpeg"
	PrincipalCtxKey = "username"
	RolesCtxKey     = "roles"
)

const (
	RoleAdmin = "ADMIN"
	RoleAudit = "AUDIT"
)
