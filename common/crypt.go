package common

const (
	salt = "r3L4y0J&*Ty)H23-7%#Pa;]k(" //user password salt
)

// GetMD5Password is the stored form of a user password.
func GetMD5Password(pwd string) string {
	return GetMD5OfStr(pwd + salt)
}
