package component

import "github.com/milk9111/agentmotor/ai"

type Brain struct {
	Agent *ai.Agent
}

var BrainComponent = NewComponent[Brain]()
