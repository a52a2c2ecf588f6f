package bootstrap

import (
	"crypto/rand"
	"math/big"

	"github.com/jenfonro/sharesync/internal/db"
	"github.com/jenfonro/sharesync/internal/model"
	"github.com/jenfonro/sharesync/pkg/utils"
)

// InitData seeds the admin account on first start. The generated password is
// printed once; after that, only a database reset brings it back.
func InitData() {
	count, err := db.CountUsers()
	if err != nil {
		utils.Log.Fatalf("failed to count users: %+v", err)
	}
	if count > 0 {
		return
	}
	password := randomPassword(10)
	admin := &model.User{
		Username: "admin",
		PwdHash:  utils.HashPwd(password),
		Role:     model.RoleAdmin,
	}
	if err := db.CreateUser(admin); err != nil {
		utils.Log.Fatalf("failed to create admin user: %+v", err)
	}
	utils.Log.Infof("initial admin user created, username: admin, password: %s", password)
}

func randomPassword(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			utils.Log.Fatalf("failed to generate password: %v", err)
		}
		out[i] = chars[idx.Int64()]
	}
	return string(out)
}
