package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/contractdock/backend/internal/entity"
	"github.com/contractdock/backend/internal/model"
	"github.com/contractdock/backend/internal/repository"
	"github.com/contractdock/backend/pkg/errorx"
	"github.com/contractdock/backend/pkg/xcontext"
)

type NetworkDomain interface {
	Create(context.Context, *model.CreateNetworkRequest) (*model.CreateNetworkResponse, error)
	GetList(context.Context, *model.GetNetworksRequest) (*model.GetNetworksResponse, error)
}

type networkDomain struct {
	networkRepo repository.NetworkRepository
}

func NewNetworkDomain(networkRepo repository.NetworkRepository) *networkDomain {
	return &networkDomain{networkRepo: networkRepo}
}

func (d *networkDomain) Create(
	ctx context.Context, req *model.CreateNetworkRequest,
) (*model.CreateNetworkResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	if req.IPAddress == "" || req.WSPort == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty endpoint")
	}

	network := &entity.Network{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		ChainType: req.ChainType,
		Version:   req.Version,
		Consensus: req.Consensus,
		IPAddress: req.IPAddress,
		WSPort:    req.WSPort,
		IsPublic:  req.IsPublic,
		OwnerID:   xcontext.RequestUserID(ctx),
	}

	if err := d.networkRepo.Create(ctx, network); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create network: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateNetworkResponse{ID: network.ID}, nil
}

func (d *networkDomain) GetList(
	ctx context.Context, req *model.GetNetworksRequest,
) (*model.GetNetworksResponse, error) {
	networks, err := d.networkRepo.GetList(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get networks: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNetworksResponse{}
	for _, n := range networks {
		resp.Networks = append(resp.Networks, model.Network{
			ID:        n.ID,
			Name:      n.Name,
			ChainType: n.ChainType,
			Version:   n.Version,
			Consensus: n.Consensus,
			IsPublic:  n.IsPublic,
		})
	}

	return resp, nil
}
