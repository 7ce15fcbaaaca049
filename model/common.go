package model

type CommonParam struct {
	Operator string
}

type CommonParamInterface interface {
	SetOperator(op string)
}

func (p *CommonParam) SetOperator(op string) {
	p.Operator = op
}
