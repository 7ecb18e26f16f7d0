package game

// Command is the tagged union of actions a connected player can issue.
type Command interface {
	isCommand()
}

type ChatCommand struct {
	Text string
}

type MoveCommand struct {
	Cell int
}

type RematchCommand struct{}

func (ChatCommand) isCommand()    {}
func (MoveCommand) isCommand()    {}
func (RematchCommand) isCommand() {}
