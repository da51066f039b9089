package cli

import (
	"encoding/json"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/viper"

	"hotel-erp/internal/adapters"
	"hotel-erp/internal/app"
)

func newAppService() (app.Service, error) {
	return app.NewService(app.Config{
		ERP: adapters.ERPConfig{
			BaseURL:   viper.GetString("erp_base_url"),
			APIPath:   viper.GetString("erp_api_path"),
			TimeoutMs: viper.GetInt("erp_timeout_ms"),
			APIKey:    viper.GetString("erp_api_key"),
			APISecret: viper.GetString("erp_api_secret"),
		},
		StateFile: viper.GetString("state_file"),
		SeedFile:  viper.GetString("seed_file"),
	})
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode output").
			WithCause(err)
	}
	return nil
}
