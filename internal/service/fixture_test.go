package service

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/entity"
	"cloudport-api/internal/metrics"
	"cloudport-api/internal/mocks"
	"cloudport-api/internal/payment"
	"cloudport-api/internal/repo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	services  *Services
	repos     *repo.Repositories
	deps      *Dependencies
	gateway   *mocks.MockGateway
	publisher *mocks.MockPublisher
	querier   *mocks.MockQuerier
	signer    *mocks.MockSigner
	clock     *testClock

	company  *auth.Principal
	engineer *auth.Principal
	stranger *auth.Principal
	admin    *auth.Principal
}

func principal(id, userType string, capabilities ...string) *auth.Principal {
	p := &auth.Principal{UserId: id, UserType: userType, Capabilities: make(map[string]bool)}
	for _, c := range capabilities {
		p.Capabilities[c] = true
	}

	return p
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repos:     repo.NewMemoryRepositories(),
		gateway:   &mocks.MockGateway{GatewayName: "payjp"},
		publisher: &mocks.MockPublisher{},
		querier:   &mocks.MockQuerier{},
		signer:    &mocks.MockSigner{},
		clock:     &testClock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)},
		company:   principal("company-1", common.Company),
		engineer:  principal("engineer-1", common.Engineer),
		stranger:  principal("engineer-2", common.Engineer),
		admin:     principal("admin-1", common.Company, common.CapabilityLogsRead, common.CapabilityContractsRefund),
	}
	f.publisher.On("PublishContractEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	f.deps = &Dependencies{
		CardGateway: f.gateway,
		Publisher:   f.publisher,
		Signer:      f.signer,
		Querier:     f.querier,
		LogSources: []LogSource{
			{LogType: common.LogTypePaymentErrors, Groups: []string{"/pay/a", "/pay/b"}, Pattern: "ERROR"},
			{LogType: common.LogTypeLoginFailures, Groups: []string{"/login"}, Pattern: "login failed"},
			{LogType: common.LogTypeAPIErrors, Groups: []string{"/api"}, Pattern: "statusCode"},
		},
		LogTimeout: time.Second,
		FeePercent: 10,
		Currency:   "jpy",
		Metrics:    metrics.New(),
		Now:        f.clock.Now,
	}
	f.services = NewServices(f.repos, f.deps)

	return f
}

// withDemo rebuilds the services with token-less payments enabled.
func (f *fixture) withDemo() {
	f.deps.DemoGateway = payment.NewDemoGateway()
	f.services = NewServices(f.repos, f.deps)
}

// seedApplication posts a job as f.company and applies to it as f.engineer.
func (f *fixture) seedApplication(t *testing.T) *entity.ApplicationOutputModel {
	t.Helper()
	ctx := context.Background()

	job, err := f.services.Job.CreateJob(ctx, f.company, &entity.CreateJobInput{
		Title:                  "Migrate to EKS",
		Description:            "Move three services from ECS to EKS",
		Budget:                 800000,
		Duration:               "3 months",
		RequiredCertifications: []string{"SAP-C02"},
	})
	require.NoError(t, err)

	application, err := f.services.Application.Apply(ctx, f.engineer, job.JobId, "I have done this twice")
	require.NoError(t, err)

	return application
}
