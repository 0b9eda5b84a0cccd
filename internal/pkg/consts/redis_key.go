package consts

const (
	ReactionDirtyKey           = "reaction:dirty"
	ReactionDirtyProcessingKey = "reaction:dirty:processing"
	TokenBlacklistKey          = "token:blacklist:"
)

const (
	ReactionReconcileLock = "lock:reaction:reconcile"
)
