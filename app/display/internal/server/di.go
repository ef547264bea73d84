package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/clinic_radar/app/display/internal/data"
	"github.com/iWorld-y/clinic_radar/app/display/internal/service"
	"github.com/iWorld-y/clinic_radar/app/display/internal/usecase"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewInspector,

	// Data providers
	data.NewData,
	data.NewResultRepo,
	data.NewTrendSource,

	// UseCase providers
	usecase.NewAnalyzeUseCase,
	usecase.NewDiagnosisUseCase,
	usecase.NewTrendUseCase,

	// Service providers
	service.NewDisplayService,
)
