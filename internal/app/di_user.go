package app

import (
	"fmt"

	"github.com/allisson/useradmin/internal/audit"
	"github.com/allisson/useradmin/internal/config"
	"github.com/allisson/useradmin/internal/database"
	"github.com/allisson/useradmin/internal/keycloak"
	"github.com/allisson/useradmin/internal/kms"
	"github.com/allisson/useradmin/internal/mediator"
	userHTTP "github.com/allisson/useradmin/internal/user/http"
	userRepository "github.com/allisson/useradmin/internal/user/repository"
	userUsecase "github.com/allisson/useradmin/internal/user/usecase"
)

// metricsDomain labels the operations dispatched through the user mediator.
const metricsDomain = "users"

// keycloakCredentials are the Keycloak secrets after KMS unsealing.
type keycloakCredentials struct {
	clientSecret    string
	defaultPassword string
}

// KeycloakCredentials returns the admin client secret and the default user
// password, unsealed with the KMS key when one is configured.
func (c *Container) KeycloakCredentials() (clientSecret, defaultPassword string, err error) {
	c.credentialsInit.Do(func() {
		creds, err := c.initKeycloakCredentials()
		c.store("keycloakCredentials", err, func() { c.credentials = creds })
	})
	if err := c.initError("keycloakCredentials"); err != nil {
		return "", "", err
	}
	return c.credentials.clientSecret, c.credentials.defaultPassword, nil
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.userRepositoryInit.Do(func() {
		repo, err := c.initUserRepository()
		c.store("userRepository", err, func() { c.userRepository = repo })
	})
	if err := c.initError("userRepository"); err != nil {
		return nil, err
	}
	return c.userRepository, nil
}

// KeycloakClient returns the admin API client of the destination realm.
func (c *Container) KeycloakClient() (*keycloak.Client, error) {
	c.keycloakClientInit.Do(func() {
		client, err := c.initKeycloakClient()
		c.store("keycloakClient", err, func() { c.keycloakClient = client })
	})
	if err := c.initError("keycloakClient"); err != nil {
		return nil, err
	}
	return c.keycloakClient, nil
}

// Mediator returns the request dispatcher with every user handler registered.
func (c *Container) Mediator() (*mediator.Mediator, error) {
	c.mediatorInit.Do(func() {
		m, err := c.initMediator()
		c.store("mediator", err, func() { c.mediator = m })
	})
	if err := c.initError("mediator"); err != nil {
		return nil, err
	}
	return c.mediator, nil
}

// UserHandler returns the HTTP handler for user management.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	c.userHandlerInit.Do(func() {
		handler, err := c.initUserHandler()
		c.store("userHandler", err, func() { c.userHandler = handler })
	})
	if err := c.initError("userHandler"); err != nil {
		return nil, err
	}
	return c.userHandler, nil
}

func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	stamper := audit.NewStamper(audit.SystemClock{}, audit.ContextActor{})

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return userRepository.NewMySQLUserRepository(db, stamper), nil
	case database.DriverPostgres:
		return userRepository.NewPostgreSQLUserRepository(db, stamper), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initKeycloakCredentials() (*keycloakCredentials, error) {
	creds := &keycloakCredentials{
		clientSecret:    c.config.KeycloakClientSecret,
		defaultPassword: c.config.KeycloakDefaultUserPassword,
	}
	if c.config.KMSKeyURI == "" {
		return creds, nil
	}

	if err := kms.UnsealAll(c.ctx, c.config.KMSKeyURI, &creds.clientSecret, &creds.defaultPassword); err != nil {
		return nil, fmt.Errorf("failed to unseal keycloak credentials: %w", err)
	}
	if err := config.ValidateDefaultUserPassword(creds.defaultPassword); err != nil {
		return nil, fmt.Errorf("invalid default user password: %w", err)
	}

	c.Logger().Info("keycloak credentials unsealed with KMS")
	return creds, nil
}

func (c *Container) initKeycloakClient() (*keycloak.Client, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for keycloak client: %w", err)
	}

	clientSecret, _, err := c.KeycloakCredentials()
	if err != nil {
		return nil, err
	}

	client, err := keycloak.NewClient(keycloak.Config{
		AuthServerURL:    c.config.KeycloakAuthServerURL,
		TokenURL:         c.config.KeycloakTokenURL,
		Realm:            c.config.KeycloakRealm,
		DestinationRealm: c.config.KeycloakDestinationRealm,
		ClientID:         c.config.KeycloakClientID,
		ClientSecret:     clientSecret,
		Timeout:          c.config.KeycloakHTTPTimeout,
		RetryMax:         c.config.KeycloakRetryMax,
	}, c.Logger(), businessMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create keycloak client: %w", err)
	}
	return client, nil
}

// initMediator assembles the pipeline. Behaviors run in the order given:
// metrics and logging see the final outcome, validation short-circuits before
// the handler and infrastructure failures are translated closest to it.
func (c *Container) initMediator() (*mediator.Mediator, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for mediator: %w", err)
	}

	users, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for mediator: %w", err)
	}

	identityProvider, err := c.KeycloakClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get keycloak client for mediator: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for mediator: %w", err)
	}

	_, defaultPassword, err := c.KeycloakCredentials()
	if err != nil {
		return nil, err
	}

	validators := mediator.NewValidators()
	m := mediator.New(
		mediator.MetricsBehavior(metricsDomain, businessMetrics),
		mediator.LoggingBehavior(logger),
		mediator.ValidationBehavior(validators, logger),
		mediator.InfrastructureErrorBehavior(logger),
	)

	userUsecase.Register(m, validators, userUsecase.Dependencies{
		TxManager:        txManager,
		Users:            users,
		IdentityProvider: identityProvider,
		DefaultPassword:  defaultPassword,
	})

	return m, nil
}

func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	m, err := c.Mediator()
	if err != nil {
		return nil, fmt.Errorf("failed to get mediator for user handler: %w", err)
	}
	return userHTTP.NewUserHandler(m, c.Logger()), nil
}
