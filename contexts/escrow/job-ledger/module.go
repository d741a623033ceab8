package jobledger

import (
	"log/slog"

	httpadapter "jobescrow/contexts/escrow/job-ledger/adapters/http"
	"jobescrow/contexts/escrow/job-ledger/adapters/memory"
	"jobescrow/contexts/escrow/job-ledger/application/commands"
	"jobescrow/contexts/escrow/job-ledger/application/queries"
	"jobescrow/contexts/escrow/job-ledger/domain/entities"
	"jobescrow/contexts/escrow/job-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	postJob := commands.PostJobUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	submitDelivery := commands.SubmitDeliveryUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	recordVerdict := commands.RecordVerdictUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			PostJob:        postJob,
			SubmitDelivery: submitDelivery,
			RecordVerdict:  recordVerdict,
			Queries:        queryUseCase,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Job, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
