package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"neighborloop/api"
	"neighborloop/web"
)

func main() {
	// 允許從 .env 載入環境變數，檔案不存在時忽略
	godotenv.Load()

	args := ParseArgs()
	if !args.Validate() {
		panic("missing arguments")
	}
	server, err := api.NewServer(args.ServerConfig)
	if err != nil {
		panic(err)
	}
	defer server.Close()

	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())
	server.RegisterRoutes(router)
	if err := router.Run(args.ServerURL); err != nil {
		panic(err)
	}
}
