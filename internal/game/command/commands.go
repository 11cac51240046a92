// Package command executes structured player intents against the live
// world: built-in verb handlers, story action rules, and the messages both
// produce.
package command

// Categories for organizing commands.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryObjects       = "objects"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
)

// Canonical action names. The intent parser normalizes player input onto
// this set; anything outside it can only be claimed by a story rule.
const (
	ActionMove      = "move"
	ActionLook      = "look"
	ActionExamine   = "examine"
	ActionRead      = "read"
	ActionTake      = "take"
	ActionDrop      = "drop"
	ActionGive      = "give"
	ActionPut       = "put"
	ActionOpen      = "open"
	ActionClose     = "close"
	ActionLock      = "lock"
	ActionUnlock    = "unlock"
	ActionEnter     = "enter"
	ActionExit      = "exit"
	ActionClimb     = "climb"
	ActionBoard     = "board"
	ActionStart     = "start"
	ActionTalk      = "talk"
	ActionAsk       = "ask"
	ActionBye       = "bye"
	ActionTrade     = "trade"
	ActionInventory = "inventory"
	ActionHelp      = "help"
)

// Command describes one player-invocable verb.
type Command struct {
	// Name is the canonical action name.
	Name string
	// Aliases are alternate spellings accepted for this verb.
	Aliases []string
	// Help is the short usage text shown to players.
	Help string
	// Category groups the verb for help display.
	Category string
}

// BuiltinCommands returns every built-in verb.
func BuiltinCommands() []Command {
	return []Command{
		{Name: ActionMove, Aliases: []string{"go", "walk"}, Help: "Move in a direction (go north)", Category: CategoryMovement},
		{Name: ActionEnter, Aliases: nil, Help: "Enter something you can get inside of", Category: CategoryMovement},
		{Name: ActionExit, Aliases: []string{"leave", "out"}, Help: "Get out of whatever you are in", Category: CategoryMovement},
		{Name: ActionClimb, Aliases: nil, Help: "Climb something that leads somewhere", Category: CategoryMovement},
		{Name: ActionBoard, Aliases: []string{"ride"}, Help: "Board a vehicle", Category: CategoryMovement},
		{Name: ActionStart, Aliases: []string{"drive"}, Help: "Start a vehicle", Category: CategoryMovement},

		{Name: ActionLook, Aliases: []string{"l"}, Help: "Look around the current location", Category: CategoryWorld},
		{Name: ActionExamine, Aliases: []string{"x", "inspect"}, Help: "Examine something closely", Category: CategoryWorld},
		{Name: ActionRead, Aliases: nil, Help: "Read something with writing on it", Category: CategoryWorld},

		{Name: ActionTake, Aliases: []string{"get", "grab"}, Help: "Pick something up", Category: CategoryObjects},
		{Name: ActionDrop, Aliases: nil, Help: "Put down something you are carrying", Category: CategoryObjects},
		{Name: ActionGive, Aliases: nil, Help: "Give an item to a character (give lamp to hermit)", Category: CategoryObjects},
		{Name: ActionPut, Aliases: []string{"place"}, Help: "Put an item in or on something", Category: CategoryObjects},
		{Name: ActionOpen, Aliases: nil, Help: "Open a container", Category: CategoryObjects},
		{Name: ActionClose, Aliases: []string{"shut"}, Help: "Close a container", Category: CategoryObjects},
		{Name: ActionLock, Aliases: nil, Help: "Lock a container", Category: CategoryObjects},
		{Name: ActionUnlock, Aliases: nil, Help: "Unlock a container (unlock chest with key)", Category: CategoryObjects},

		{Name: ActionTalk, Aliases: []string{"speak"}, Help: "Talk to a character", Category: CategoryCommunication},
		{Name: ActionAsk, Aliases: nil, Help: "Ask a character about a topic (ask hermit about cave)", Category: CategoryCommunication},
		{Name: ActionBye, Aliases: []string{"goodbye", "farewell"}, Help: "End a conversation", Category: CategoryCommunication},
		{Name: ActionTrade, Aliases: []string{"swap"}, Help: "Trade an item with a character", Category: CategoryCommunication},

		{Name: ActionInventory, Aliases: []string{"inv", "i"}, Help: "List what you are carrying", Category: CategorySystem},
		{Name: ActionHelp, Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem},
	}
}
