package estimator

type AlgType string

const (
	AlgTypeKNN AlgType = "KNN"
)

type Config struct {
	Type      AlgType `envconfig:"KNC_ESTIMATOR_TYPE" default:"KNN"`
	Neighbors int     `envconfig:"KNC_ESTIMATOR_NEIGHBORS" default:"1"`
}

func (c Config) EstimatorType() AlgType {
	return c.Type
}
