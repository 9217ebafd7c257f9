package metrics

import (
	"github.com/carelane/noshow/core/factory"
	coremetrics "github.com/carelane/noshow/core/metrics"
)

type influxConf struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

func init() {
	// Registration errors here mean a duplicate name, which is a
	// programming error.
	if err := coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		return NewPromSink()
	}); err != nil {
		panic(err)
	}
	if err := coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c influxConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	}); err != nil {
		panic(err)
	}
}
