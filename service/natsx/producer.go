package natsx

// NatsxProducer 生产端
type NatsxProducer struct{ c *NatsxClient }

func NewNatsxProducer(c *NatsxClient) *NatsxProducer { return &NatsxProducer{c: c} }

// Publish 发布到指定 subject（core 模式，即发即忘）
func (p *NatsxProducer) Publish(subject string, data []byte) error {
	return p.c.nc.Publish(subject, data)
}
