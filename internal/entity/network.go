package entity

type Network struct {
	Base

	Name      string
	ChainType string
	Version   string
	Consensus string
	IPAddress string
	WSPort    string
	IsPublic  bool
	OwnerID   string
}

// WSEndpoint is the websocket url of the chain node behind this network.
func (n Network) WSEndpoint() string {
	return "ws://" + n.IPAddress + ":" + n.WSPort
}
