package judgingengine

import (
	"log/slog"

	httpadapter "jobescrow/contexts/escrow/judging-engine/adapters/http"
	"jobescrow/contexts/escrow/judging-engine/application/commands"
	"jobescrow/contexts/escrow/judging-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
}

// Dependencies wires the engine. Only Ledger is required.
type Dependencies struct {
	Ledger         ports.Ledger
	Fetcher        ports.Fetcher
	Consensus      ports.Consensus
	Locker         ports.JobLocker
	StrictVerdicts bool
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Judge: commands.JudgeUseCase{
				Ledger:         deps.Ledger,
				Fetcher:        deps.Fetcher,
				Consensus:      deps.Consensus,
				Locker:         deps.Locker,
				StrictVerdicts: deps.StrictVerdicts,
				Logger:         deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}
