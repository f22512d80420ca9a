package pipeline

// Processor is one stage. It reads what earlier stages left in the context
// and records its own output or errors there.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors: a stage whose inputs are missing skips itself,
		// so one run reports every independent configuration problem.
	}
	return ctx
}

// Infer is the stage list of an inference run.
func Infer() *Pipeline {
	return New(
		&ConfigProcessor{},
		&TypesProcessor{},
		&CatalogProcessor{},
		&InstancesProcessor{},
		&EngineProcessor{},
		&TreeProcessor{},
		&InferProcessor{},
	)
}

// Complete is the stage list of a completion run.
func Complete(prefix string) *Pipeline {
	return New(
		&ConfigProcessor{},
		&TypesProcessor{},
		&CatalogProcessor{},
		&InstancesProcessor{},
		&EngineProcessor{},
		&TreeProcessor{},
		&CompleteProcessor{Prefix: prefix},
	)
}
