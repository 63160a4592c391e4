package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/agent"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
)

func TestSortedAgentNosIsAscending(t *testing.T) {
	st := New(nil)
	st.Agents[5] = agent.New(model.UAV{No: 5})
	st.Agents[1] = agent.New(model.UAV{No: 1})
	st.Agents[3] = agent.New(model.UAV{No: 3})

	assert.Equal(t, []int{1, 3, 5}, st.SortedAgentNos())
}

func TestSortedAgentNosEmpty(t *testing.T) {
	st := New(nil)
	assert.Empty(t, st.SortedAgentNos())
}
