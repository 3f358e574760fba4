package server

import (
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapgrpc"
	"google.golang.org/grpc/grpclog"

	"github.com/oshokin/json-persistence/internal/logger"
)

// InstallGRPCLogger routes gRPC's internal logging into the global logger at level.
// It must be called before any gRPC activity and is not thread-safe.
func InstallGRPCLogger(level zapcore.Level) {
	base := logger.Logger().Desugar().Named("grpc").WithOptions(logger.WithLevel(level))

	grpclog.SetLoggerV2(zapgrpc.NewLogger(base))
}
