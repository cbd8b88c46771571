package main

import (
	"github.com/lnuais/member_service/config"
	"github.com/lnuais/member_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
