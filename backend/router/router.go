package router

import (
	"net/http"

	"jkwi-ims/backend/app/controllers"
)

func NewRouter(httpCtrl *controllers.HTTPController, authCtrl *controllers.AuthController, memberCtrl *controllers.MemberController) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", httpCtrl.Health)
	mux.HandleFunc("/api/register", authCtrl.Register)
	mux.HandleFunc("/api/login", authCtrl.Login)
	mux.HandleFunc("/api/members", memberCtrl.Members)
	mux.HandleFunc("/api/applications", memberCtrl.Applications)
	mux.HandleFunc("/api/stats", memberCtrl.Stats)
	mux.HandleFunc("/api/export", memberCtrl.Export)
	mux.HandleFunc("/", httpCtrl.NotFound)
	return mux
}
