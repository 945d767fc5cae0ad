package initialize

import (
	"context"
	"fmt"
	"net/http"

	"jkwi-ims/backend/app/controllers"
	jwtutil "jkwi-ims/backend/app/jwt"
	"jkwi-ims/backend/app/middleware"
	"jkwi-ims/backend/app/repo"
	"jkwi-ims/backend/app/services"
	"jkwi-ims/backend/config"
	"jkwi-ims/backend/global"
	"jkwi-ims/backend/router"
)

type App struct {
	Cfg     *config.Config
	Router  http.Handler
	Signer  *jwtutil.Signer
	Users   *services.UserService
	Apps    *services.ApplicationService
	Listing *services.ListingCache

	members      *repo.FileRepository
	applications *repo.FileRepository
}

func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return BuildWith(cfg)
}

// BuildWith wires the app from an already loaded config.
func BuildWith(cfg *config.Config) (*App, error) {
	global.Config = cfg

	members := repo.NewFileRepository(cfg.Storage.MembersDir)
	applications := repo.NewFileRepository(cfg.Storage.ApplicationsDir)
	for _, r := range []*repo.FileRepository{members, applications} {
		if err := r.Ensure(); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	signer := &jwtutil.Signer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, ExpMin: cfg.JWT.ExpMin}
	cache := services.NewListingCache()
	userSvc := services.NewUserService(repo.NewUserRepository(members), signer)
	appSvc := services.NewApplicationService(applications, members, cache, cfg.Listing.SkipCorrupt)

	mw := &middleware.Auth{Signer: signer}
	httpCtrl := controllers.NewHTTPController()
	authCtrl := controllers.NewAuthController(userSvc)
	memberCtrl := controllers.NewMemberController(appSvc)
	memberCtrl.Guard = func(h http.Handler) http.Handler { return mw.Optional(cfg.API.RequireToken, h) }

	h := router.NewRouter(httpCtrl, authCtrl, memberCtrl)
	h = middleware.Logging(h)

	return &App{
		Cfg: cfg, Router: h, Signer: signer, Users: userSvc, Apps: appSvc, Listing: cache,
		members: members, applications: applications,
	}, nil
}

// WatchData starts the listing cache watcher on both data directories.
func (a *App) WatchData(ctx context.Context) error {
	return a.Listing.Watch(ctx, a.members.Dir(), a.applications.Dir())
}
