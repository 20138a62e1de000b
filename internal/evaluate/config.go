package evaluate

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"KNC_EVALUATE_REQUEST_TIMEOUT" default:"120s"`
}
