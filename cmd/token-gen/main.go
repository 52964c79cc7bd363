package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/SwiftFleet/SwiftFleet/internal/common/auth"
	"github.com/SwiftFleet/SwiftFleet/internal/common/config"
)

// 开发/运维工具：按服务配置签发测试用 access token。
var (
	configPath = flag.String("config", "configs/rental-service.json", "配置文件路径")
	subject    = flag.String("sub", "", "用户 ID（必填）")
	roles      = flag.String("roles", "customer", "角色，逗号分隔，例如 customer 或 staff,admin")
	ttl        = flag.Duration("ttl", 24*time.Hour, "token 有效期")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	if *subject == "" {
		fmt.Println("usage: token-gen -sub <user-id> [-roles staff,admin] [-ttl 1h]")
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	token, expiresAt, err := auth.GenerateAccessToken(cfg.Auth, *subject, roleList, *ttl)
	if err != nil {
		panic(fmt.Sprintf("failed to generate token: %v", err))
	}
	fmt.Printf("subject:  %s\nroles:    %s\nexpires:  %s\n\n%s\n",
		*subject, strings.Join(roleList, ","), expiresAt.Format(time.RFC3339), token)
}
