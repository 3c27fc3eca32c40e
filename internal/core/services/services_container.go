package services

import (
	portsrepo "github.com/JobSiteOps/job_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Org = NewOrgService(repos.OrgRepo, repos.UserRepo)
	container.Job = NewJobService(repos.JobRepo, repos.UserRepo, repos.OrgRepo)

	// Token and OAuth services sit on top of the user service.
	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.JobSvcFacade  = (*jobService)(nil)
	_ portssvc.OrgSvcFacade  = (*orgService)(nil)
	_ portssvc.UserSvcFacade = (*userService)(nil)
)
