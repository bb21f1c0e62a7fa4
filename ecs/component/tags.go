package component

// PlayerTag marks the human-controlled character.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type AgentTag struct {
	Prefab string
}

var AgentTagComponent = NewComponent[AgentTag]()
