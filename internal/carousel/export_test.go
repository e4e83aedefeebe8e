package carousel

import "github.com/pnll1991/expedicion-andina/internal/domain"

func (c *Controller) displayCopy() []domain.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Review(nil), c.display...)
}
